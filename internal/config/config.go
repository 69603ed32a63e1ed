package config

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/minisoc/socdash/internal/safefile"
)

// EnvAPIURL overrides api_url when set.
const EnvAPIURL = "SOCDASH_API_URL"

// Config is the top-level socdash configuration.
type Config struct {
	APIURL    string          `yaml:"api_url"`
	Timeout   time.Duration   `yaml:"timeout"`
	LogLevel  string          `yaml:"log_level"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	TUI       TUIConfig       `yaml:"tui"`
	Watch     WatchConfig     `yaml:"watch"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// DashboardConfig holds web dashboard settings.
type DashboardConfig struct {
	Port            int           `yaml:"port"`
	Bind            string        `yaml:"bind"` // Address to bind (default: 127.0.0.1)
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// TUIConfig holds terminal dashboard settings.
type TUIConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"` // 0 = manual refresh only
}

// WatchConfig configures the log directory watcher.
type WatchConfig struct {
	Dir        string        `yaml:"dir"`
	Extensions []string      `yaml:"extensions"`
	Debounce   time.Duration `yaml:"debounce"`
}

// TelemetryConfig toggles tracing and metrics.
type TelemetryConfig struct {
	Tracing bool `yaml:"tracing"`
	Metrics bool `yaml:"metrics"`
}

// Load reads and parses a socdash config file.
func Load(path string) (*Config, error) {
	data, err := safefile.ReadFileMax(path, safefile.MaxConfigBytes)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Apply zero-value defaults after unmarshal
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if len(cfg.Watch.Extensions) == 0 {
		cfg.Watch.Extensions = []string{".txt", ".log"}
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// Defaults returns a config with sensible defaults.
func Defaults() *Config {
	return &Config{
		APIURL:   "http://127.0.0.1:8000",
		Timeout:  30 * time.Second,
		LogLevel: "info",
		Dashboard: DashboardConfig{
			Port:            8090,
			Bind:            "127.0.0.1",
			RefreshInterval: 30 * time.Second,
		},
		Watch: WatchConfig{
			Extensions: []string{".txt", ".log"},
			Debounce:   500 * time.Millisecond,
		},
		Telemetry: TelemetryConfig{
			Metrics: true,
		},
	}
}

// ApplyEnv applies environment overrides.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
}

// Save writes the config to a YAML file at the given path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks that the config is consistent.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid api_url %q: %w", c.APIURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_url %q must use http or https", c.APIURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api_url %q has no host", c.APIURL)
	}
	if c.Dashboard.Port < 1 || c.Dashboard.Port > 65535 {
		return fmt.Errorf("invalid dashboard port: %d", c.Dashboard.Port)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.Timeout < 0 || c.Dashboard.RefreshInterval < 0 || c.TUI.RefreshInterval < 0 || c.Watch.Debounce < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	return nil
}

// Level maps log_level to a slog level.
func (c *Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Logger builds the text logger used across socdash.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.Level()}))
}
