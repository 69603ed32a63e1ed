package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/minisoc/socdash/internal/view"
)

var (
	colorAccent   = lipgloss.Color("#6366f1")
	colorCritical = lipgloss.Color("#ef4444")
	colorHigh     = lipgloss.Color("#f59e0b")
	colorMedium   = lipgloss.Color("#818cf8")
	colorMuted    = lipgloss.Color("#71717a")
	colorSuccess  = lipgloss.Color("#22c55e")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	labelStyle  = lipgloss.NewStyle().Foreground(colorMuted).MarginRight(1)
	promptStyle = lipgloss.NewStyle().Bold(true)
	chartStyle  = lipgloss.NewStyle().Foreground(colorAccent)

	counterStyle = lipgloss.NewStyle().Bold(true).MarginRight(3)

	bannerStyles = map[view.Kind]lipgloss.Style{
		view.KindInfo:    lipgloss.NewStyle().Foreground(colorAccent),
		view.KindSuccess: lipgloss.NewStyle().Foreground(colorSuccess),
		view.KindError:   lipgloss.NewStyle().Foreground(colorCritical).Bold(true),
	}

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#27272a")).
			Padding(0, 1)
)

// severityStyle colours a counter by severity.
func severityStyle(sev string) lipgloss.Style {
	switch sev {
	case view.SeverityCritical:
		return counterStyle.Foreground(colorCritical)
	case view.SeverityHigh:
		return counterStyle.Foreground(colorHigh)
	case view.SeverityMedium:
		return counterStyle.Foreground(colorMedium)
	default:
		return counterStyle
	}
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorMuted).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#fafafa")).
		Background(colorAccent).
		Bold(false)
	return s
}
