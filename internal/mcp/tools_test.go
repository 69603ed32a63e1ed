package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	mcplib "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minisoc/socdash/internal/view"
	"github.com/minisoc/socdash/sdk"
)

type fakeBackend struct {
	alerts   []sdk.Alert
	stats    *sdk.StatsResponse
	files    []string
	err      error
	analyzed string
	cleared  bool
}

func (f *fakeBackend) Alerts(context.Context) (*sdk.AlertsResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &sdk.AlertsResponse{Success: true, Total: len(f.alerts), Alerts: f.alerts}, nil
}

func (f *fakeBackend) Stats(context.Context) (*sdk.StatsResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

func (f *fakeBackend) ListLogs(context.Context) (*sdk.LogFilesResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &sdk.LogFilesResponse{Success: true, Count: len(f.files), Files: f.files}, nil
}

func (f *fakeBackend) AnalyzeLog(_ context.Context, filename string) (*sdk.AnalysisResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.analyzed = filename
	return &sdk.AnalysisResponse{Success: true, AlertsDetected: 5, AlertsSaved: 5, Message: "Analyzed " + filename}, nil
}

func (f *fakeBackend) ClearAlerts(context.Context) (*sdk.ClearResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.cleared = true
	return &sdk.ClearResponse{Success: true}, nil
}

func testBackend() *fakeBackend {
	return &fakeBackend{
		alerts: []sdk.Alert{
			{ID: 1, Timestamp: "2024-01-15 10:23:45", AlertType: "Brute Force Attack", Severity: "High", IPAddress: "192.168.1.100"},
			{ID: 2, Timestamp: "2024-01-15 10:40:00", AlertType: "Port Scan", Severity: "Medium", IPAddress: "10.0.0.5"},
			{ID: 3, Timestamp: "2024-01-15 11:02:00", AlertType: "SQL Injection", Severity: "Critical", IPAddress: "203.0.113.7"},
		},
		stats: &sdk.StatsResponse{
			Success:    true,
			ByHour:     map[string]int{"2024-01-15 10": 2, "2024-01-15 11": 1},
			ByType:     map[string]int{"Brute Force Attack": 1, "Port Scan": 1, "SQL Injection": 1},
			BySeverity: map[string]int{"High": 1, "Medium": 1, "Critical": 1},
		},
		files: []string{"sample_auth.txt"},
	}
}

func connect(t *testing.T, b Backend) *mcplib.ClientSession {
	t.Helper()
	ctx := context.Background()
	srv := NewServer(b, "test", slog.New(slog.NewTextHandler(io.Discard, nil)))

	ct, st := mcplib.NewInMemoryTransports()
	_, err := srv.Connect(ctx, st, nil)
	require.NoError(t, err)

	c := mcplib.NewClient(&mcplib.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	cs, err := c.Connect(ctx, ct, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func call(t *testing.T, cs *mcplib.ClientSession, name string, args map[string]any) (*mcplib.CallToolResult, string) {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcplib.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(*mcplib.TextContent)
	require.True(t, ok)
	return res, tc.Text
}

func TestListTools(t *testing.T) {
	cs := connect(t, testBackend())
	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"list_alerts", "alert_stats", "list_log_files", "analyze_log", "clear_alerts"}, names)
}

func TestListAlerts(t *testing.T) {
	cs := connect(t, testBackend())
	res, text := call(t, cs, "list_alerts", nil)
	assert.False(t, res.IsError)

	var out struct {
		Total    int         `json:"total"`
		Matched  int         `json:"matched"`
		Returned int         `json:"returned"`
		Alerts   []sdk.Alert `json:"alerts"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, 3, out.Total)
	assert.Equal(t, 3, out.Returned)
	assert.Equal(t, "Brute Force Attack", out.Alerts[0].AlertType)
}

func TestListAlerts_SeverityAndLimit(t *testing.T) {
	cs := connect(t, testBackend())

	_, text := call(t, cs, "list_alerts", map[string]any{"severity": "CRITICAL"})
	assert.Contains(t, text, "SQL Injection")
	assert.NotContains(t, text, "Port Scan")

	_, text = call(t, cs, "list_alerts", map[string]any{"limit": 1})
	var out struct {
		Matched int         `json:"matched"`
		Alerts  []sdk.Alert `json:"alerts"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, 3, out.Matched)
	require.Len(t, out.Alerts, 1)
	assert.Equal(t, 3, out.Alerts[0].ID)
}

func TestListAlerts_Empty(t *testing.T) {
	cs := connect(t, &fakeBackend{})
	_, text := call(t, cs, "list_alerts", nil)
	assert.Contains(t, text, `"alerts": []`)
}

func TestAlertStats(t *testing.T) {
	cs := connect(t, testBackend())
	res, text := call(t, cs, "alert_stats", nil)
	assert.False(t, res.IsError)

	var out struct {
		Summary  view.Summary   `json:"summary"`
		ByHour   map[string]int `json:"by_hour"`
		Timeline view.Timeline  `json:"timeline"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, view.Summary{Total: 3, Critical: 1, High: 1, Medium: 1}, out.Summary)
	assert.Equal(t, 2, out.ByHour["2024-01-15 10"])
	assert.Equal(t, []string{"2024-01-15 10", "2024-01-15 11"}, out.Timeline.Labels)
}

func TestListLogFiles(t *testing.T) {
	cs := connect(t, testBackend())
	_, text := call(t, cs, "list_log_files", nil)
	assert.Contains(t, text, "sample_auth.txt")
	assert.Contains(t, text, `"count": 1`)
}

func TestAnalyzeLog(t *testing.T) {
	b := testBackend()
	cs := connect(t, b)

	res, text := call(t, cs, "analyze_log", map[string]any{"filename": "sample_auth.txt"})
	assert.False(t, res.IsError)
	assert.Equal(t, "sample_auth.txt", b.analyzed)
	assert.Contains(t, text, `"alerts_detected": 5`)
}

func TestAnalyzeLog_MissingFilename(t *testing.T) {
	b := testBackend()
	cs := connect(t, b)

	res, text := call(t, cs, "analyze_log", map[string]any{})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "filename is required")
	assert.Empty(t, b.analyzed)
}

func TestClearAlerts_RequiresConfirm(t *testing.T) {
	b := testBackend()
	cs := connect(t, b)

	res, text := call(t, cs, "clear_alerts", map[string]any{"confirm": false})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "confirm must be true")
	assert.False(t, b.cleared)

	res, text = call(t, cs, "clear_alerts", map[string]any{"confirm": true})
	assert.False(t, res.IsError)
	assert.Equal(t, view.MsgCleared, text)
	assert.True(t, b.cleared)
}

func TestBackendErrors(t *testing.T) {
	cs := connect(t, &fakeBackend{err: errors.New("connection refused")})

	for _, name := range []string{"list_alerts", "alert_stats", "list_log_files"} {
		res, text := call(t, cs, name, nil)
		assert.True(t, res.IsError, name)
		assert.Contains(t, text, "connection refused", name)
	}
}

func TestArguments(t *testing.T) {
	a := parseArgs(json.RawMessage(`{"name":"x","n":3.9,"ok":true}`))
	assert.Equal(t, "x", a.String("name", ""))
	assert.Equal(t, "d", a.String("n", "d"))
	assert.Equal(t, 3, a.Int("n", 0))
	assert.Equal(t, 7, a.Int("missing", 7))
	assert.True(t, a.Bool("ok"))
	assert.False(t, a.Bool("name"))

	assert.Nil(t, parseArgs(nil))
	assert.Nil(t, parseArgs(json.RawMessage(`not json`)))
	assert.Equal(t, "d", parseArgs(nil).String("k", "d"))
}
