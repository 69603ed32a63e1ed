package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/minisoc/socdash/internal/view"
)

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <filename>",
		Short: "Analyze a log file stored on the backend",
		Example: `  socdash logs
  socdash analyze sample_auth.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := cliLogger(cfg, os.Stderr)

			filename := args[0]
			if filename == "" {
				return fmt.Errorf("%s", view.MsgNoLogSelected)
			}

			logger.Info("analyzing log", "file", filename)
			resp, err := newClient(cfg).AnalyzeLog(cmd.Context(), filename)
			if err != nil {
				return commandError(err, view.MsgAnalyzeFailed, view.MsgAnalyzeUnreachable)
			}

			fmt.Fprintln(cmd.OutOrStdout(), okColor.Sprint(view.Detected(resp.AlertsDetected, time.Now()).Text)) //nolint:errcheck // CLI output
			return nil
		},
	}
}
