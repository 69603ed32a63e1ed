package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/minisoc/socdash/internal/config"
	"github.com/minisoc/socdash/internal/dashboard"
	"github.com/minisoc/socdash/internal/telemetry"
)

func newDashboardCmd() *cobra.Command {
	var port int
	var bind string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Serve the web dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Dashboard.Port = port
			}
			if bind != "" {
				cfg.Dashboard.Bind = bind
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := cfg.Logger(os.Stderr)

			shutdownTracing, err := telemetry.SetupTracing(cfg.Telemetry.Tracing, os.Stderr)
			if err != nil {
				return err
			}
			defer func() { _ = shutdownTracing(context.Background()) }()

			var metrics *telemetry.Metrics
			if cfg.Telemetry.Metrics {
				metrics = telemetry.NewMetrics()
			}

			client := telemetry.NewBackendClient(cfg, metrics)
			srv := dashboard.NewServer(cfg, client, metrics, logger)

			printBanner(cfg, metrics != nil)

			// Graceful shutdown on SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override dashboard port")
	cmd.Flags().StringVar(&bind, "bind", "", "address to bind (default: 127.0.0.1)")
	return cmd
}

func printBanner(cfg *config.Config, metrics bool) {
	bindAddr := cfg.Dashboard.Bind
	if bindAddr == "" {
		bindAddr = "127.0.0.1"
	}

	fmt.Println()
	fmt.Println("  socdash dashboard")
	fmt.Println("  ────────────────────────────────────────")
	fmt.Printf("  Dashboard:  http://%s:%d/dashboard\n", bindAddr, cfg.Dashboard.Port)
	fmt.Printf("  Health:     http://%s:%d/health\n", bindAddr, cfg.Dashboard.Port)
	if metrics {
		fmt.Printf("  Metrics:    http://%s:%d/metrics\n", bindAddr, cfg.Dashboard.Port)
	}
	fmt.Printf("  Backend:    %s\n", cfg.APIURL)
	fmt.Println("  ────────────────────────────────────────")
	fmt.Printf("  Refresh: %s  |  Tracing: %v\n", cfg.Dashboard.RefreshInterval, cfg.Telemetry.Tracing)
	fmt.Println()
	fmt.Println("  Press Ctrl+C to stop.")
	fmt.Println()
}
