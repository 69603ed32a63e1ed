package view

import (
	"sort"
	"strings"
)

// Chart labels.
const (
	TimelineTitle  = "Attack Timeline"
	SeriesLabel    = "Alerts Detected"
	AxisLabelY     = "Number of Alerts"
	AxisLabelX     = "Time"
	NoDataLabel    = "No Data"
	minVisiblePct  = 2
	sparkLevels    = "▁▂▃▄▅▆▇█"
	sparkZeroGlyph = " "
)

// Timeline is the alerts-per-hour series.
type Timeline struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
	Max    int      `json:"max"`
}

// Bar is one column of the HTML chart.
type Bar struct {
	Label   string `json:"label"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"` // 0-100
}

// BuildTimeline orders the by-hour counts by label. Hour labels are
// "YYYY-MM-DD HH" so lexical order is chronological. An empty map yields a
// single "No Data" point at zero.
func BuildTimeline(byHour map[string]int) Timeline {
	if len(byHour) == 0 {
		return Timeline{Labels: []string{NoDataLabel}, Values: []int{0}}
	}
	labels := make([]string, 0, len(byHour))
	for k := range byHour {
		labels = append(labels, k)
	}
	sort.Strings(labels)

	t := Timeline{Labels: labels, Values: make([]int, len(labels))}
	for i, l := range labels {
		v := byHour[l]
		t.Values[i] = v
		if v > t.Max {
			t.Max = v
		}
	}
	return t
}

// HasData reports whether the timeline holds real points.
func (t Timeline) HasData() bool {
	return !(len(t.Labels) == 1 && t.Labels[0] == NoDataLabel)
}

// Bars scales values against the maximum.
func (t Timeline) Bars() []Bar {
	bars := make([]Bar, len(t.Values))
	for i, v := range t.Values {
		pct := 0
		if t.Max > 0 {
			pct = (v * 100) / t.Max
		}
		if pct < minVisiblePct && v > 0 {
			pct = minVisiblePct
		}
		bars[i] = Bar{Label: t.Labels[i], Count: v, Percent: pct}
	}
	return bars
}

// Sparkline renders the last width points as block glyphs.
func (t Timeline) Sparkline(width int) string {
	vals := t.Values
	if width > 0 && len(vals) > width {
		vals = vals[len(vals)-width:]
	}
	levels := []rune(sparkLevels)
	var b strings.Builder
	for _, v := range vals {
		if v <= 0 || t.Max == 0 {
			b.WriteString(sparkZeroGlyph)
			continue
		}
		idx := (v*len(levels) - 1) / t.Max
		if idx >= len(levels) {
			idx = len(levels) - 1
		}
		b.WriteRune(levels[idx])
	}
	return b.String()
}
