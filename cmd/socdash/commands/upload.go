package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/minisoc/socdash/internal/safefile"
	"github.com/minisoc/socdash/internal/view"
)

func newUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a log file for analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := cliLogger(cfg, os.Stderr)

			path := args[0]
			f, err := safefile.Open(path, safefile.MaxLogBytes)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("%s: %s does not exist", view.MsgNoFile, path)
				}
				return fmt.Errorf("opening log file: %w", err)
			}
			defer f.Close() //nolint:errcheck // read-only

			logger.Info("uploading log", "path", path, "backend", cfg.APIURL)
			resp, err := newClient(cfg).UploadLog(cmd.Context(), filepath.Base(path), f)
			if err != nil {
				return commandError(err, view.MsgAnalyzeFailed, view.MsgUploadFailed)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, okColor.Sprint(view.Detected(resp.AlertsDetected, time.Now()).Text)) //nolint:errcheck // CLI output
			if resp.FileSaved != "" {
				fmt.Fprintf(out, "Saved as %s\n", resp.FileSaved) //nolint:errcheck // CLI output
			}
			return nil
		},
	}
}
