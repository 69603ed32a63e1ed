package commands

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/minisoc/socdash/internal/config"
	"github.com/minisoc/socdash/internal/telemetry"
	"github.com/minisoc/socdash/sdk"
)

var (
	cfgFile string
	apiURL  string
	verbose bool
)

func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:   "socdash",
		Short: "Dashboard and CLI for a Mini SOC backend",
		Long: "socdash reads alerts from a Mini SOC backend and shows them as counters, " +
			"an hourly attack timeline and an alerts table, in the browser or the terminal. " +
			"It can upload and analyze logs and clear the alert store.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "socdash.yaml", "config file path")
	root.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend URL (overrides config and "+config.EnvAPIURL+")")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at the configured level instead of errors only")

	root.AddCommand(
		newDashboardCmd(),
		newTUICmd(),
		newAlertsCmd(),
		newStatsCmd(),
		newUploadCmd(),
		newLogsCmd(),
		newAnalyzeCmd(),
		newClearCmd(),
		newWatchCmd(),
		newMCPCmd(),
		newStatusCmd(),
		newInitCmd(),
		newVersionCmd(),
	)

	return root
}

// loadConfig reads --config, falling back to defaults when the file does not
// exist, and applies --api-url.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = config.Defaults()
		cfg.ApplyEnv()
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// cliLogger logs errors only unless --verbose is set. Long-running commands
// use cfg.Logger directly.
func cliLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	if verbose {
		return cfg.Logger(w)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newClient(cfg *config.Config) *sdk.Client {
	return telemetry.NewBackendClient(cfg, nil)
}
