// Package tui is the terminal dashboard: severity counters, the attack
// timeline as a sparkline, the alerts table and the log commands.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/minisoc/socdash/internal/safefile"
	"github.com/minisoc/socdash/internal/view"
	"github.com/minisoc/socdash/sdk"
)

// reloadDelay is how long a successful command waits before the dashboard
// reloads.
const reloadDelay = time.Second

// Backend is the subset of the SOC client the terminal dashboard drives.
type Backend interface {
	view.Source
	UploadLog(ctx context.Context, name string, content io.Reader) (*sdk.AnalysisResponse, error)
	AnalyzeLog(ctx context.Context, filename string) (*sdk.AnalysisResponse, error)
	ClearAlerts(ctx context.Context) (*sdk.ClearResponse, error)
}

// Options configures the terminal dashboard.
type Options struct {
	// RefreshInterval reloads the dashboard periodically. Zero disables it.
	RefreshInterval time.Duration
	// BackendURL is shown in the header.
	BackendURL string
	Logger     *slog.Logger
}

type mode int

const (
	modeBrowse mode = iota
	modeUpload
	modeAnalyze
	modeConfirmClear
)

type (
	snapshotMsg struct {
		snap view.Snapshot
		err  error
	}
	// resultMsg finishes an upload, analyze or clear.
	resultMsg struct {
		banner view.Banner
		ok     bool
	}
	reloadMsg  struct{}
	refreshMsg struct{}
	expireMsg  struct{}
)

// Model is the bubbletea model for the terminal dashboard.
type Model struct {
	ctx     context.Context
	backend Backend
	opts    Options
	logger  *slog.Logger
	now     func() time.Time

	keys  keyMap
	help  help.Model
	table table.Model
	input textinput.Model

	mode    mode
	snap    view.Snapshot
	loaded  bool
	banner  view.Banner
	fileIdx int
	busy    bool
	width   int
}

// New creates the terminal dashboard model.
func New(ctx context.Context, backend Backend, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	cols := []table.Column{
		{Title: view.Columns[0], Width: 5},
		{Title: view.Columns[1], Width: 19},
		{Title: view.Columns[2], Width: 22},
		{Title: view.Columns[3], Width: 9},
		{Title: view.Columns[4], Width: 15},
		{Title: view.Columns[5], Width: 40},
	}
	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	t.SetStyles(tableStyles())

	in := textinput.New()
	in.Placeholder = "path/to/auth.log"
	in.CharLimit = 512
	in.Width = 50

	return Model{
		ctx:     ctx,
		backend: backend,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
		keys:    defaultKeys(),
		help:    help.New(),
		table:   t,
		input:   in,
		snap:    view.Snapshot{Table: view.BuildTable(nil), Timeline: view.BuildTimeline(nil)},
	}
}

// Init loads the dashboard and starts auto refresh.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.scheduleRefresh())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		if h := msg.Height - 14; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case snapshotMsg:
		if msg.err != nil {
			m.logger.Error("loading dashboard", "error", msg.err)
			return m, m.setBanner(view.Error(view.MsgLoadFailed, m.now()))
		}
		m.snap = msg.snap
		m.loaded = true
		m.table.SetRows(tableRows(msg.snap.Table))
		if m.fileIdx >= len(m.snap.Files) {
			m.fileIdx = 0
		}
		return m, nil

	case resultMsg:
		m.busy = false
		cmd := m.setBanner(msg.banner)
		if msg.ok {
			return m, tea.Batch(cmd, tea.Tick(reloadDelay, func(time.Time) tea.Msg { return reloadMsg{} }))
		}
		return m, cmd

	case reloadMsg:
		return m, m.load()

	case refreshMsg:
		return m, tea.Batch(m.load(), m.scheduleRefresh())

	case expireMsg:
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeUpload:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.mode = modeBrowse
			m.input.Blur()
			m.input.Reset()
			return m, nil
		case key.Matches(msg, m.keys.Confirm):
			path := strings.TrimSpace(m.input.Value())
			m.mode = modeBrowse
			m.input.Blur()
			m.input.Reset()
			if path == "" {
				return m, m.setBanner(view.Error(view.MsgNoFile, m.now()))
			}
			m.busy = true
			return m, tea.Batch(m.setBanner(view.Info(view.MsgUploading, m.now())), m.upload(path))
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case modeAnalyze:
		files := m.snap.Files
		if len(files) == 0 {
			m.mode = modeBrowse
			return m, m.setBanner(view.Error(view.MsgNoFiles, m.now()))
		}
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.mode = modeBrowse
		case key.Matches(msg, m.keys.Prev):
			m.fileIdx = (m.fileIdx - 1 + len(files)) % len(files)
		case key.Matches(msg, m.keys.Next):
			m.fileIdx = (m.fileIdx + 1) % len(files)
		case key.Matches(msg, m.keys.Confirm):
			m.mode = modeBrowse
			m.busy = true
			return m, tea.Batch(m.setBanner(view.Info(view.MsgAnalyzing, m.now())), m.analyze(files[m.fileIdx]))
		}
		return m, nil

	case modeConfirmClear:
		switch {
		case key.Matches(msg, m.keys.Yes):
			m.mode = modeBrowse
			m.busy = true
			return m, tea.Batch(m.setBanner(view.Info(view.MsgClearing, m.now())), m.clear())
		case key.Matches(msg, m.keys.No):
			m.mode = modeBrowse
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		return m, m.load()
	case m.busy && (key.Matches(msg, m.keys.Upload) || key.Matches(msg, m.keys.Analyze) || key.Matches(msg, m.keys.Clear)):
		return m, nil
	case key.Matches(msg, m.keys.Upload):
		m.mode = modeUpload
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Analyze):
		if len(m.snap.Files) == 0 {
			return m, m.setBanner(view.Error(view.MsgNoFiles, m.now()))
		}
		m.mode = modeAnalyze
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		m.mode = modeConfirmClear
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// setBanner replaces the banner and schedules a redraw when it expires.
func (m *Model) setBanner(b view.Banner) tea.Cmd {
	m.banner = b
	return tea.Tick(b.ExpiresAt.Sub(m.now()), func(time.Time) tea.Msg { return expireMsg{} })
}

func (m Model) scheduleRefresh() tea.Cmd {
	if m.opts.RefreshInterval <= 0 {
		return nil
	}
	return tea.Tick(m.opts.RefreshInterval, func(time.Time) tea.Msg { return refreshMsg{} })
}

func (m Model) load() tea.Cmd {
	return func() tea.Msg {
		snap, err := view.Load(m.ctx, m.backend, m.logger)
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m Model) upload(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := safefile.Open(path, safefile.MaxLogBytes)
		if err != nil {
			m.logger.Error("opening log file", "path", path, "error", err)
			return resultMsg{banner: view.Error(fmt.Sprintf("Cannot read %s", filepath.Base(path)), m.now())}
		}
		defer f.Close() //nolint:errcheck // read-only

		resp, err := m.backend.UploadLog(m.ctx, filepath.Base(path), f)
		if err != nil {
			m.logger.Error("uploading log", "path", path, "error", err)
			return resultMsg{banner: view.Failure(err, view.MsgAnalyzeFailed, view.MsgUploadFailed, m.now())}
		}
		return resultMsg{banner: view.Detected(resp.AlertsDetected, m.now()), ok: true}
	}
}

func (m Model) analyze(filename string) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.backend.AnalyzeLog(m.ctx, filename)
		if err != nil {
			m.logger.Error("analyzing log", "file", filename, "error", err)
			return resultMsg{banner: view.Failure(err, view.MsgAnalyzeFailed, view.MsgAnalyzeUnreachable, m.now())}
		}
		return resultMsg{banner: view.Detected(resp.AlertsDetected, m.now()), ok: true}
	}
}

func (m Model) clear() tea.Cmd {
	return func() tea.Msg {
		if _, err := m.backend.ClearAlerts(m.ctx); err != nil {
			m.logger.Error("clearing alerts", "error", err)
			return resultMsg{banner: view.Failure(err, view.MsgClearFailed, view.MsgClearUnreachable, m.now())}
		}
		return resultMsg{banner: view.Cleared(m.now()), ok: true}
	}
}

func tableRows(t view.Table) []table.Row {
	rows := make([]table.Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		rows = append(rows, table.Row(r.Cells()))
	}
	return rows
}

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Security Operations Center"))
	if m.opts.BackendURL != "" {
		b.WriteString("  " + mutedStyle.Render(m.opts.BackendURL))
	}
	b.WriteString("\n\n")

	s := m.snap.Summary
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render("Total"), severityStyle("").Render(fmt.Sprint(s.Total)),
		labelStyle.Render("Critical"), severityStyle(view.SeverityCritical).Render(fmt.Sprint(s.Critical)),
		labelStyle.Render("High"), severityStyle(view.SeverityHigh).Render(fmt.Sprint(s.High)),
		labelStyle.Render("Medium"), severityStyle(view.SeverityMedium).Render(fmt.Sprint(s.Medium)),
	))
	b.WriteString("\n\n")

	b.WriteString(m.timelineView())
	b.WriteString("\n")

	if m.snap.Table.Empty {
		b.WriteString(panelStyle.Render(mutedStyle.Render(view.EmptyMessage)))
	} else {
		b.WriteString(m.table.View())
	}
	b.WriteString("\n\n")

	switch m.mode {
	case modeUpload:
		b.WriteString(promptStyle.Render("Upload log file: ") + m.input.View())
		b.WriteString("\n")
	case modeAnalyze:
		if len(m.snap.Files) == 0 {
			break
		}
		b.WriteString(promptStyle.Render("Analyze: ") +
			fmt.Sprintf("← %s →", m.snap.Files[m.fileIdx]) +
			mutedStyle.Render(fmt.Sprintf("  (%d/%d, enter to analyze, esc to cancel)", m.fileIdx+1, len(m.snap.Files))))
		b.WriteString("\n")
	case modeConfirmClear:
		b.WriteString(promptStyle.Render("Are you sure you want to clear all alerts? (y/n)"))
		b.WriteString("\n")
	}

	if m.banner.Active(m.now()) {
		b.WriteString(bannerStyles[m.banner.Kind].Render(m.banner.Text))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) timelineView() string {
	tl := m.snap.Timeline
	width := len(tl.Values)
	if m.width > 0 && width > m.width-4 {
		width = m.width - 4
	}

	var b strings.Builder
	b.WriteString(promptStyle.Render(view.TimelineTitle))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %s (max %d)", view.AxisLabelY, tl.Max)))
	b.WriteString("\n")
	b.WriteString(chartStyle.Render(tl.Sparkline(width)))
	b.WriteString("\n")
	if n := len(tl.Labels); n > 0 {
		first, last := tl.Labels[0], tl.Labels[n-1]
		if width > 0 && width < n {
			first = tl.Labels[n-width]
		}
		if first == last {
			b.WriteString(mutedStyle.Render(first))
		} else {
			b.WriteString(mutedStyle.Render(first + " … " + last))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Run starts the terminal dashboard and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, backend Backend, opts Options) error {
	p := tea.NewProgram(New(ctx, backend, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("running terminal dashboard: %w", err)
	}
	return nil
}
