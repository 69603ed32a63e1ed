package commands

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/minisoc/socdash/internal/view"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show severity counters and the hourly attack timeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := cliLogger(cfg, os.Stderr)
			client := newClient(cfg)

			alerts, err := client.Alerts(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s: %w", view.MsgLoadFailed, err)
			}
			var byHour, byType map[string]int
			if stats, err := client.Stats(cmd.Context()); err != nil {
				logger.Warn("updating chart failed", "error", err)
			} else {
				byHour, byType = stats.ByHour, stats.ByType
			}

			out := cmd.OutOrStdout()
			s := view.Summarize(alerts.Alerts)
			fmt.Fprintln(out)                                                         //nolint:errcheck // CLI output
			fmt.Fprintln(out, "  socdash stats")                                      //nolint:errcheck // CLI output
			fmt.Fprintln(out, "  ────────────────────────────────────────")           //nolint:errcheck // CLI output
			fmt.Fprintf(out, "  Total:         %d\n", s.Total)                        //nolint:errcheck // CLI output
			fmt.Fprintf(out, "  Critical:      %s\n", sevCritical.Sprint(s.Critical)) //nolint:errcheck // CLI output
			fmt.Fprintf(out, "  High:          %s\n", sevHigh.Sprint(s.High))         //nolint:errcheck // CLI output
			fmt.Fprintf(out, "  Medium:        %s\n", sevMedium.Sprint(s.Medium))     //nolint:errcheck // CLI output
			fmt.Fprintf(out, "  Low:           %s\n", sevLow.Sprint(s.Low))           //nolint:errcheck // CLI output

			tl := view.BuildTimeline(byHour)
			fmt.Fprintln(out, "  ────────────────────────────────────────")                       //nolint:errcheck // CLI output
			fmt.Fprintf(out, "  %s  (%s, max %d)\n", view.TimelineTitle, view.AxisLabelY, tl.Max) //nolint:errcheck // CLI output
			fmt.Fprintf(out, "  %s\n", tl.Sparkline(60))                                          //nolint:errcheck // CLI output

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, bar := range tl.Bars() {
				fmt.Fprintf(tw, "  %s\t%d\n", bar.Label, bar.Count) //nolint:errcheck // CLI output
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if len(byType) > 0 {
				fmt.Fprintln(out, "  ────────────────────────────────────────") //nolint:errcheck // CLI output
				fmt.Fprintln(out, "  By type:")                                 //nolint:errcheck // CLI output
				types := make([]string, 0, len(byType))
				for t := range byType {
					types = append(types, t)
				}
				sort.Slice(types, func(i, j int) bool {
					if byType[types[i]] != byType[types[j]] {
						return byType[types[i]] > byType[types[j]]
					}
					return types[i] < types[j]
				})
				tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				for _, t := range types {
					fmt.Fprintf(tw, "    %s\t%d\n", t, byType[t]) //nolint:errcheck // CLI output
				}
				if err := tw.Flush(); err != nil {
					return err
				}
			}

			fmt.Fprintln(out) //nolint:errcheck // CLI output
			return nil
		},
	}
}
