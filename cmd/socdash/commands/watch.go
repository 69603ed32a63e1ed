package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/minisoc/socdash/internal/telemetry"
	"github.com/minisoc/socdash/internal/view"
	"github.com/minisoc/socdash/internal/watch"
)

func newWatchCmd() *cobra.Command {
	var debounce, metricsAddr string
	var exts []string

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Upload log files as they appear in a directory",
		Example: `  socdash watch ./logs
  socdash watch /var/log/app --ext .log --debounce 2s`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			dir := cfg.Watch.Dir
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				return fmt.Errorf("no directory to watch: pass one or set watch.dir in %s", cfgFile)
			}

			opts := watch.Options{
				Extensions: cfg.Watch.Extensions,
				Debounce:   cfg.Watch.Debounce,
				Logger:     cfg.Logger(os.Stderr),
			}
			if len(exts) > 0 {
				opts.Extensions = exts
			}
			if debounce != "" {
				if opts.Debounce, err = parseDuration(debounce); err != nil {
					return err
				}
			}
			opts.Metrics = watchMetrics(metricsAddr)

			out := cmd.OutOrStdout()
			opts.OnResult = func(r watch.Result) {
				name := r.Path
				if r.Err != nil {
					msg := view.Failure(r.Err, view.MsgAnalyzeFailed, view.MsgUploadFailed, time.Now()).Text
					fmt.Fprintf(out, "%s  %s\n", failColor.Sprint("FAIL"), name+": "+msg) //nolint:errcheck // CLI output
					return
				}
				fmt.Fprintf(out, "%s  %s: %d alerts\n", okColor.Sprint("OK  "), name, r.Response.AlertsDetected) //nolint:errcheck // CLI output
			}

			client := telemetry.NewBackendClient(cfg, opts.Metrics)
			w := watch.New(dir, client, opts)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if metricsAddr != "" {
				mux := http.NewServeMux()
				mux.Handle("GET /metrics", opts.Metrics.Handler())
				ms := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
				go func() {
					if err := ms.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						opts.Logger.Error("metrics server", "error", err)
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = ms.Shutdown(shutdownCtx)
				}()
			}

			fmt.Fprintf(out, "Watching %s for %s files (Ctrl+C to stop)...\n", dir, strings.Join(opts.Extensions, ", ")) //nolint:errcheck // CLI output
			return w.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&debounce, "debounce", "", "quiet period after the last write before uploading (e.g. 500ms)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. 127.0.0.1:9090)")
	cmd.Flags().StringSliceVar(&exts, "ext", nil, "file extensions to upload (default .txt,.log)")
	return cmd
}

// watchMetrics builds a registry only when something will serve it.
func watchMetrics(addr string) *telemetry.Metrics {
	if addr == "" {
		return nil
	}
	return telemetry.NewMetrics()
}
