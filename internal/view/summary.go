// Package view turns backend responses into the state the dashboards render:
// severity counters, the alerts table, the hourly timeline and status banners.
package view

import (
	"strings"

	"github.com/minisoc/socdash/sdk"
)

// Severity levels reported by the backend.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// Summary holds the counters shown in the stat cards.
type Summary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Summarize counts alerts by severity. Severities are matched
// case-insensitively; unknown values only count toward Total.
func Summarize(alerts []sdk.Alert) Summary {
	s := Summary{Total: len(alerts)}
	for _, a := range alerts {
		switch strings.ToLower(a.Severity) {
		case SeverityCritical:
			s.Critical++
		case SeverityHigh:
			s.High++
		case SeverityMedium:
			s.Medium++
		case SeverityLow:
			s.Low++
		}
	}
	return s
}

// FilterSeverity returns the alerts whose severity matches sev
// (case-insensitive). An empty sev returns alerts unchanged. The result is
// never nil when sev is set.
func FilterSeverity(alerts []sdk.Alert, sev string) []sdk.Alert {
	if sev == "" {
		return alerts
	}
	out := []sdk.Alert{}
	for _, a := range alerts {
		if strings.EqualFold(a.Severity, sev) {
			out = append(out, a)
		}
	}
	return out
}
