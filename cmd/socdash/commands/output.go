package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/minisoc/socdash/internal/view"
)

// Every severity colour is a single foreground attribute so coloured cells
// carry the same escape overhead and tabwriter columns stay aligned.
var (
	sevCritical = color.New(color.FgRed)
	sevHigh     = color.New(color.FgYellow)
	sevMedium   = color.New(color.FgBlue)
	sevLow      = color.New(color.FgCyan)
	sevOther    = color.New(color.FgWhite)

	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
)

func severityCell(sev string) string {
	switch strings.ToLower(sev) {
	case view.SeverityCritical:
		return sevCritical.Sprint(sev)
	case view.SeverityHigh:
		return sevHigh.Sprint(sev)
	case view.SeverityMedium:
		return sevMedium.Sprint(sev)
	case view.SeverityLow:
		return sevLow.Sprint(sev)
	}
	return sevOther.Sprint(sev)
}

// truncate shortens s to n runes with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid duration %q: must not be negative", s)
	}
	return d, nil
}

// commandError prefixes err with the same message the dashboards show.
func commandError(err error, rejected, unreachable string) error {
	return fmt.Errorf("%s: %w", view.Failure(err, rejected, unreachable, time.Now()).Text, err)
}
