package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/minisoc/socdash/internal/tui"
)

func newTUICmd() *cobra.Command {
	var refresh, logFile string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal dashboard",
		Long: `Opens a full-screen terminal dashboard.

Keys: r refresh, u upload a local log, a analyze a backend log (←/→ to pick),
c clear all alerts, q quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			interval := cfg.TUI.RefreshInterval
			if refresh != "" {
				if interval, err = parseDuration(refresh); err != nil {
					return err
				}
			}

			// The program owns the terminal, so logs only go to --log-file.
			var logger *slog.Logger
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
				if err != nil {
					return fmt.Errorf("opening log file: %w", err)
				}
				defer f.Close() //nolint:errcheck
				logger = cfg.Logger(f)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return tui.Run(ctx, newClient(cfg), tui.Options{
				RefreshInterval: interval,
				BackendURL:      cfg.APIURL,
				Logger:          logger,
			})
		},
	}

	cmd.Flags().StringVar(&refresh, "refresh", "", "auto refresh interval (e.g. 10s, 0 to disable)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file")
	return cmd
}
