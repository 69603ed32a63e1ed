// Package dashboard serves the local web UI for the SOC backend: severity
// counters, the attack timeline, the alerts table and log commands.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/minisoc/socdash/internal/config"
	"github.com/minisoc/socdash/internal/telemetry"
	"github.com/minisoc/socdash/internal/view"
	"github.com/minisoc/socdash/sdk"
)

// Backend is the subset of the SOC client the dashboard drives.
type Backend interface {
	view.Source
	UploadLog(ctx context.Context, name string, content io.Reader) (*sdk.AnalysisResponse, error)
	AnalyzeLog(ctx context.Context, filename string) (*sdk.AnalysisResponse, error)
	ClearAlerts(ctx context.Context) (*sdk.ClearResponse, error)
}

// Server serves the socdash dashboard UI.
type Server struct {
	cfg     *config.Config
	backend Backend
	metrics *telemetry.Metrics
	logger  *slog.Logger
	mux     *http.ServeMux
	srv     *http.Server
	ln      net.Listener
	now     func() time.Time

	mu     sync.Mutex
	banner view.Banner
}

// NewServer creates a dashboard server. metrics may be nil.
func NewServer(cfg *config.Config, backend Backend, metrics *telemetry.Metrics, logger *slog.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		backend: backend,
		metrics: metrics,
		logger:  logger,
		mux:     http.NewServeMux(),
		now:     time.Now,
	}
	s.routes()
	return s
}

// Handler returns the dashboard handler with middleware applied.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = securityHeaders(h)
	h = logging(s.logger)(h)
	h = recovery(s.logger)(h)
	h = requestID(h)
	if s.metrics != nil {
		h = s.metrics.InstrumentHandler(h)
	}
	return otelhttp.NewHandler(h, "dashboard")
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /dashboard", s.handleOverview)

	// Commands
	s.mux.HandleFunc("POST /dashboard/upload", s.handleUpload)
	s.mux.HandleFunc("POST /dashboard/analyze", s.handleAnalyze)
	s.mux.HandleFunc("POST /dashboard/clear", s.handleClear)

	// HTMX partial endpoints
	s.mux.HandleFunc("GET /dashboard/api/stats", s.handleAPIStats)
	s.mux.HandleFunc("GET /dashboard/api/timeline", s.handleAPITimeline)
	s.mux.HandleFunc("GET /dashboard/api/alerts", s.handleAPIAlerts)

	// SSE
	s.mux.HandleFunc("GET /dashboard/api/events", s.handleSSE)

	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}
}

// Start binds the configured address and serves until Shutdown.
func (s *Server) Start() error {
	bind := s.cfg.Dashboard.Bind
	if bind == "" {
		bind = "127.0.0.1"
	}
	ln, err := net.Listen("tcp", net.JoinHostPort(bind, fmt.Sprint(s.cfg.Dashboard.Port)))
	if err != nil {
		return fmt.Errorf("binding dashboard port: %w", err)
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	s.mu.Lock()
	s.ln, s.srv = ln, srv
	s.mu.Unlock()

	s.logger.Info("dashboard starting", "addr", ln.Addr().String(), "backend", s.cfg.APIURL)

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	s.logger.Info("dashboard shutting down")
	return srv.Shutdown(ctx)
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// setBanner replaces the current banner.
func (s *Server) setBanner(b view.Banner) {
	s.mu.Lock()
	s.banner = b
	s.mu.Unlock()
}

// activeBanner returns the current banner if it has not expired.
func (s *Server) activeBanner() *view.Banner {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.banner.Active(s.now()) {
		return nil
	}
	b := s.banner
	return &b
}

func (s *Server) refreshInterval() time.Duration {
	if d := s.cfg.Dashboard.RefreshInterval; d > 0 {
		return d
	}
	return 30 * time.Second
}
