package view

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/minisoc/socdash/sdk"
)

// Source is the subset of the backend client the dashboards read from.
type Source interface {
	Alerts(ctx context.Context) (*sdk.AlertsResponse, error)
	Stats(ctx context.Context) (*sdk.StatsResponse, error)
	ListLogs(ctx context.Context) (*sdk.LogFilesResponse, error)
}

// Snapshot is everything one dashboard refresh produces.
type Snapshot struct {
	Alerts    []sdk.Alert
	Summary   Summary
	Table     Table
	Timeline  Timeline
	Files     []string
	FetchedAt time.Time
}

// Load refreshes the dashboard. Alerts are required; a stats or file list
// failure is logged and leaves that part empty.
func Load(ctx context.Context, src Source, logger *slog.Logger) (Snapshot, error) {
	resp, err := src.Alerts(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetching alerts: %w", err)
	}

	snap := Snapshot{
		Alerts:    resp.Alerts,
		Summary:   Summarize(resp.Alerts),
		Table:     BuildTable(resp.Alerts),
		FetchedAt: time.Now(),
	}

	snap.Timeline = BuildTimeline(nil)
	if stats, err := src.Stats(ctx); err != nil {
		logger.Warn("updating chart failed", "error", err)
	} else {
		snap.Timeline = BuildTimeline(stats.ByHour)
	}

	if files, err := src.ListLogs(ctx); err != nil {
		logger.Warn("loading log file list failed", "error", err)
	} else {
		snap.Files = files.Files
	}

	return snap, nil
}
