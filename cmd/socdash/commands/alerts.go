package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/minisoc/socdash/internal/view"
	"github.com/minisoc/socdash/sdk"
)

func newAlertsCmd() *cobra.Command {
	var severity string
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "List detected alerts",
		Example: `  socdash alerts
  socdash alerts --severity critical
  socdash alerts --limit 20 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := cliLogger(cfg, os.Stderr)

			resp, err := newClient(cfg).Alerts(cmd.Context())
			if err != nil {
				logger.Error("fetching alerts", "error", err)
				return fmt.Errorf("%s: %w", view.MsgLoadFailed, err)
			}

			alerts := resp.Alerts
			if severity != "" {
				alerts = view.FilterSeverity(alerts, severity)
			}
			if limit > 0 && len(alerts) > limit {
				alerts = alerts[len(alerts)-limit:]
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if alerts == nil {
					alerts = []sdk.Alert{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(alerts)
			}

			if len(alerts) == 0 {
				fmt.Fprintln(out, view.EmptyMessage) //nolint:errcheck // CLI output
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "ID\tTIMESTAMP\t%s\tTYPE\tIP ADDRESS\tDESCRIPTION\n", sevOther.Sprint("SEVERITY")) //nolint:errcheck // CLI output
			for _, row := range view.BuildTable(alerts).Rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", //nolint:errcheck // CLI output
					row.ID, row.Timestamp, severityCell(row.Severity), row.AlertType, row.IPAddress, truncate(row.Description, 60))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			s := view.Summarize(alerts)
			fmt.Fprintf(out, "\n%d alerts (%d critical, %d high, %d medium, %d low)\n", //nolint:errcheck // CLI output
				s.Total, s.Critical, s.High, s.Medium, s.Low)
			return nil
		},
	}

	cmd.Flags().StringVar(&severity, "severity", "", "filter by severity (critical, high, medium, low)")
	cmd.Flags().IntVar(&limit, "limit", 0, "show only the last N alerts (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print alerts as JSON")
	return cmd
}
