package mcp

import (
	"context"
	"log/slog"
	"strings"

	mcplib "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/minisoc/socdash/internal/view"
	"github.com/minisoc/socdash/sdk"
)

const defaultAlertLimit = 50

type handlers struct {
	backend Backend
	logger  *slog.Logger
}

func ptr[T any](v T) *T { return &v }

func readOnly() *mcplib.ToolAnnotations {
	return &mcplib.ToolAnnotations{
		ReadOnlyHint:    true,
		DestructiveHint: ptr(false),
		OpenWorldHint:   ptr(false),
	}
}

// --- Tool definitions ---

func listAlertsTool() *mcplib.Tool {
	return &mcplib.Tool{
		Name: "list_alerts",
		Description: "List alerts detected by the SOC backend, newest last as the backend stores them. " +
			"Each alert has a timestamp, type, severity, source IP and description.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"severity": map[string]any{
					"type":        "string",
					"description": "Only return alerts with this severity: critical, high, medium, low",
				},
				"limit": map[string]any{
					"type":        "number",
					"description": "Maximum alerts to return (default 50, 0 for all)",
				},
			},
		},
		Annotations: readOnly(),
	}
}

func alertStatsTool() *mcplib.Tool {
	return &mcplib.Tool{
		Name:        "alert_stats",
		Description: "Summarize stored alerts: counts per severity, per alert type and per hour.",
		InputSchema: map[string]any{"type": "object", "properties": map[string]any{}},
		Annotations: readOnly(),
	}
}

func listLogFilesTool() *mcplib.Tool {
	return &mcplib.Tool{
		Name:        "list_log_files",
		Description: "List the log files stored on the backend that analyze_log can process.",
		InputSchema: map[string]any{"type": "object", "properties": map[string]any{}},
		Annotations: readOnly(),
	}
}

func analyzeLogTool() *mcplib.Tool {
	return &mcplib.Tool{
		Name:        "analyze_log",
		Description: "Run threat detection on a log file stored on the backend and save the resulting alerts.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"filename": map[string]any{
					"type":        "string",
					"description": "Log file name as returned by list_log_files",
				},
			},
			"required": []string{"filename"},
		},
		Annotations: &mcplib.ToolAnnotations{
			DestructiveHint: ptr(false),
			OpenWorldHint:   ptr(false),
		},
	}
}

func clearAlertsTool() *mcplib.Tool {
	return &mcplib.Tool{
		Name:        "clear_alerts",
		Description: "Delete every stored alert. Irreversible; requires confirm=true.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"confirm": map[string]any{
					"type":        "boolean",
					"description": "Must be true to clear alerts",
				},
			},
			"required": []string{"confirm"},
		},
		Annotations: &mcplib.ToolAnnotations{
			DestructiveHint: ptr(true),
			IdempotentHint:  true,
			OpenWorldHint:   ptr(false),
		},
	}
}

// --- Handlers ---

func (h *handlers) handleListAlerts(ctx context.Context, req *mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	args := parseArgs(req.Params.Arguments)
	severity := strings.TrimSpace(args.String("severity", ""))
	limit := args.Int("limit", defaultAlertLimit)

	resp, err := h.backend.Alerts(ctx)
	if err != nil {
		h.logger.Error("list_alerts", "error", err)
		return errorResult("fetching alerts: %v", err), nil
	}

	alerts := resp.Alerts
	if severity != "" {
		alerts = view.FilterSeverity(alerts, severity)
	}
	matched := len(alerts)
	if limit > 0 && len(alerts) > limit {
		alerts = alerts[len(alerts)-limit:]
	}
	if alerts == nil {
		alerts = []sdk.Alert{}
	}

	return jsonResult(map[string]any{
		"total":    resp.Total,
		"matched":  matched,
		"returned": len(alerts),
		"alerts":   alerts,
	}), nil
}

func (h *handlers) handleAlertStats(ctx context.Context, _ *mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	alerts, err := h.backend.Alerts(ctx)
	if err != nil {
		h.logger.Error("alert_stats", "error", err)
		return errorResult("fetching alerts: %v", err), nil
	}
	stats, err := h.backend.Stats(ctx)
	if err != nil {
		h.logger.Error("alert_stats", "error", err)
		return errorResult("fetching stats: %v", err), nil
	}

	return jsonResult(map[string]any{
		"summary":     view.Summarize(alerts.Alerts),
		"by_hour":     stats.ByHour,
		"by_type":     stats.ByType,
		"by_severity": stats.BySeverity,
		"timeline":    view.BuildTimeline(stats.ByHour),
	}), nil
}

func (h *handlers) handleListLogFiles(ctx context.Context, _ *mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	resp, err := h.backend.ListLogs(ctx)
	if err != nil {
		h.logger.Error("list_log_files", "error", err)
		return errorResult("listing log files: %v", err), nil
	}
	return jsonResult(map[string]any{
		"count": len(resp.Files),
		"files": resp.Files,
	}), nil
}

func (h *handlers) handleAnalyzeLog(ctx context.Context, req *mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	filename := strings.TrimSpace(parseArgs(req.Params.Arguments).String("filename", ""))
	if filename == "" {
		return errorResult("filename is required"), nil
	}

	resp, err := h.backend.AnalyzeLog(ctx, filename)
	if err != nil {
		h.logger.Error("analyze_log", "file", filename, "error", err)
		return errorResult("analyzing %s: %v", filename, err), nil
	}
	h.logger.Info("analyze_log", "file", filename, "alerts_detected", resp.AlertsDetected)

	return jsonResult(map[string]any{
		"filename":        filename,
		"alerts_detected": resp.AlertsDetected,
		"alerts_saved":    resp.AlertsSaved,
		"message":         resp.Message,
	}), nil
}

func (h *handlers) handleClearAlerts(ctx context.Context, req *mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	if !parseArgs(req.Params.Arguments).Bool("confirm") {
		return errorResult("confirm must be true to clear alerts"), nil
	}

	if _, err := h.backend.ClearAlerts(ctx); err != nil {
		h.logger.Error("clear_alerts", "error", err)
		return errorResult("clearing alerts: %v", err), nil
	}
	h.logger.Info("clear_alerts")
	return textResult(view.MsgCleared), nil
}
