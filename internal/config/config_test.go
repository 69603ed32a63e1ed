package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/minisoc/socdash/internal/safefile"
)

func TestLoad(t *testing.T) {
	content := `
api_url: http://soc.internal:9000
timeout: 5s
log_level: debug
dashboard:
  port: 9090
  refresh_interval: 1m
tui:
  refresh_interval: 10s
watch:
  dir: /var/log/soc
  debounce: 2s
telemetry:
  tracing: true
`
	dir := t.TempDir()
	path := filepath.Join(dir, "socdash.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAPIURL, "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.APIURL != "http://soc.internal:9000" {
		t.Errorf("api_url = %q", cfg.APIURL)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.Timeout)
	}
	if cfg.Dashboard.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Dashboard.Port)
	}
	if cfg.Dashboard.Bind != "127.0.0.1" {
		t.Errorf("bind = %q, default should survive partial section", cfg.Dashboard.Bind)
	}
	if cfg.Dashboard.RefreshInterval != time.Minute {
		t.Errorf("refresh = %v", cfg.Dashboard.RefreshInterval)
	}
	if cfg.TUI.RefreshInterval != 10*time.Second {
		t.Errorf("tui refresh = %v", cfg.TUI.RefreshInterval)
	}
	if cfg.Watch.Dir != "/var/log/soc" || cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("watch = %+v", cfg.Watch)
	}
	if len(cfg.Watch.Extensions) != 2 {
		t.Errorf("extensions = %v", cfg.Watch.Extensions)
	}
	if !cfg.Telemetry.Tracing || !cfg.Telemetry.Metrics {
		t.Errorf("telemetry = %+v", cfg.Telemetry)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "socdash.yaml")
	if err := os.WriteFile(path, []byte("api_url: http://a:1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAPIURL, "http://b:2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIURL != "http://b:2" {
		t.Errorf("api_url = %q, want env override", cfg.APIURL)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.APIURL != "http://127.0.0.1:8000" {
		t.Errorf("default api_url = %q", cfg.APIURL)
	}
	if cfg.Dashboard.Port != 8090 {
		t.Errorf("default port = %d, want 8090", cfg.Dashboard.Port)
	}
	if cfg.TUI.RefreshInterval != 0 {
		t.Error("tui auto refresh should be off by default")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "socdash.yaml")
	cfg := Defaults()
	cfg.Dashboard.Port = 9999
	cfg.Timeout = 12 * time.Second
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAPIURL, "")

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Dashboard.Port != 9999 || loaded.Timeout != 12*time.Second {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad scheme", func(c *Config) { c.APIURL = "ftp://x" }, true},
		{"no host", func(c *Config) { c.APIURL = "http://" }, true},
		{"port zero", func(c *Config) { c.Dashboard.Port = 0 }, true},
		{"port too big", func(c *Config) { c.Dashboard.Port = 70000 }, true},
		{"bad level", func(c *Config) { c.LogLevel = "trace" }, true},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	cfg := Defaults()
	cfg.LogLevel = "warn"
	if cfg.Level() != slog.LevelWarn {
		t.Errorf("level = %v", cfg.Level())
	}

	var buf bytes.Buffer
	logger := cfg.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown")
	if bytes.Contains(buf.Bytes(), []byte("hidden")) || !bytes.Contains(buf.Bytes(), []byte("shown")) {
		t.Errorf("log output = %q", buf.String())
	}
}

func TestLoad_RejectsSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.yaml")
	link := filepath.Join(dir, "socdash.yaml")
	if err := os.WriteFile(target, []byte("api_url: http://a:1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if _, err := Load(link); !errors.Is(err, safefile.ErrSymlink) {
		t.Errorf("err = %v, want ErrSymlink", err)
	}
}
