// Package mcp exposes the SOC backend to agents as MCP tools.
package mcp

import (
	"context"
	"log/slog"

	mcplib "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/minisoc/socdash/internal/view"
	"github.com/minisoc/socdash/sdk"
)

// Backend is the subset of the SOC client the tools call.
type Backend interface {
	view.Source
	AnalyzeLog(ctx context.Context, filename string) (*sdk.AnalysisResponse, error)
	ClearAlerts(ctx context.Context) (*sdk.ClearResponse, error)
}

// NewServer creates an MCP server exposing socdash tools.
func NewServer(backend Backend, version string, logger *slog.Logger) *mcplib.Server {
	s := mcplib.NewServer(&mcplib.Implementation{
		Name:    "socdash",
		Version: version,
	}, &mcplib.ServerOptions{
		Instructions: "socdash reads a Mini SOC backend. " +
			"Use these tools to list detected alerts, summarize them by severity and hour, " +
			"analyze stored log files and clear the alert store.",
	})

	h := &handlers{backend: backend, logger: logger}

	s.AddTool(listAlertsTool(), h.handleListAlerts)
	s.AddTool(alertStatsTool(), h.handleAlertStats)
	s.AddTool(listLogFilesTool(), h.handleListLogFiles)
	s.AddTool(analyzeLogTool(), h.handleAnalyzeLog)
	s.AddTool(clearAlertsTool(), h.handleClearAlerts)

	return s
}

// Serve runs the MCP server on stdio until ctx is cancelled or the client
// disconnects.
func Serve(ctx context.Context, s *mcplib.Server) error {
	return s.Run(ctx, &mcplib.StdioTransport{})
}
