package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/minisoc/socdash/internal/view"
)

const maxUploadBytes = 32 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"backend": s.cfg.APIURL,
	})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	snap, err := view.Load(r.Context(), s.backend, s.logger)
	if err != nil {
		s.logger.Error("loading dashboard", "error", err)
		s.setBanner(view.Error(view.MsgLoadFailed, s.now()))
		snap = view.Snapshot{
			Table:    view.BuildTable(nil),
			Timeline: view.BuildTimeline(nil),
		}
	}

	data := map[string]any{
		"Active":    "overview",
		"Backend":   s.cfg.APIURL,
		"Stats":     snap.Summary,
		"Table":     snap.Table,
		"Timeline":  snap.Timeline,
		"Bars":      snap.Timeline.Bars(),
		"Files":     snap.Files,
		"Banner":    s.activeBanner(),
		"RefreshMs": s.refreshInterval().Milliseconds(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := overviewTmpl.Execute(w, data); err != nil {
		s.logger.Error("rendering overview", "error", err)
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, hdr, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, http.ErrMissingFile):
			s.setBanner(view.Error(view.MsgNoFile, s.now()))
		case errors.As(err, &tooLarge):
			s.logger.Warn("upload too large", "limit", tooLarge.Limit)
			s.setBanner(view.Error(view.MsgFileTooLarge, s.now()))
		default:
			s.logger.Warn("reading upload form", "error", err)
			s.setBanner(view.Error(view.MsgBadUpload, s.now()))
		}
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	defer file.Close() //nolint:errcheck // multipart temp file

	resp, err := s.backend.UploadLog(r.Context(), hdr.Filename, file)
	s.observeUpload(err)
	if err != nil {
		s.logger.Error("uploading log", "file", hdr.Filename, "error", err)
		s.setBanner(view.Failure(err, view.MsgAnalyzeFailed, view.MsgUploadFailed, s.now()))
	} else {
		s.logger.Info("log uploaded", "file", hdr.Filename, "alerts_detected", resp.AlertsDetected)
		s.setBanner(view.Detected(resp.AlertsDetected, s.now()))
	}
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	filename := r.FormValue("filename")
	if filename == "" {
		s.setBanner(view.Error(view.MsgNoLogSelected, s.now()))
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	resp, err := s.backend.AnalyzeLog(r.Context(), filename)
	if err != nil {
		s.logger.Error("analyzing log", "file", filename, "error", err)
		s.setBanner(view.Failure(err, view.MsgAnalyzeFailed, view.MsgAnalyzeUnreachable, s.now()))
	} else {
		s.logger.Info("log analyzed", "file", filename, "alerts_detected", resp.AlertsDetected)
		s.setBanner(view.Detected(resp.AlertsDetected, s.now()))
	}
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if _, err := s.backend.ClearAlerts(r.Context()); err != nil {
		s.logger.Error("clearing alerts", "error", err)
		s.setBanner(view.Failure(err, view.MsgClearFailed, view.MsgClearUnreachable, s.now()))
	} else {
		s.logger.Info("alerts cleared")
		s.setBanner(view.Cleared(s.now()))
	}
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// HTMX partial: stat counters
func (s *Server) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	resp, err := s.backend.Alerts(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusBadGateway, view.MsgLoadFailed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(view.Summarize(resp.Alerts))
}

func (s *Server) handleAPITimeline(w http.ResponseWriter, r *http.Request) {
	resp, err := s.backend.Stats(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusBadGateway, view.MsgLoadFailed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(view.BuildTimeline(resp.ByHour))
}

// HTMX partial: alerts table
func (s *Server) handleAPIAlerts(w http.ResponseWriter, r *http.Request) {
	resp, err := s.backend.Alerts(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = fmt.Fprintf(w, `<div class="message message-error">%s</div>`, view.MsgLoadFailed)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = alertsPartialTmpl.Execute(w, view.BuildTable(resp.Alerts))
}

// --- SSE handler ---

type snapshotEvent struct {
	Summary   view.Summary  `json:"summary"`
	Timeline  view.Timeline `json:"timeline"`
	Bars      []view.Bar    `json:"bars"`
	FetchedAt time.Time     `json:"fetched_at"`
	Error     string        `json:"error,omitempty"`
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	rc := http.NewResponseController(w)
	_ = rc.SetWriteDeadline(time.Time{}) // no deadline

	ctx := r.Context()
	send := func() {
		var ev snapshotEvent
		snap, err := view.Load(ctx, s.backend, s.logger)
		if err != nil {
			ev.Error = view.MsgLoadFailed
		} else {
			ev = snapshotEvent{
				Summary:   snap.Summary,
				Timeline:  snap.Timeline,
				Bars:      snap.Timeline.Bars(),
				FetchedAt: snap.FetchedAt,
			}
		}
		data, _ := json.Marshal(ev)
		_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}

	send()

	ticker := time.NewTicker(s.refreshInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			send()
		}
	}
}

func (s *Server) observeUpload(err error) {
	if s.metrics != nil {
		s.metrics.ObserveUpload(err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
