package telemetry

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/minisoc/socdash/internal/config"
	"github.com/minisoc/socdash/sdk"
)

// NewHTTPClient builds the traced, metered HTTP client used for backend calls.
// A nil m skips metrics.
func NewHTTPClient(timeout time.Duration, m *Metrics) *http.Client {
	var rt http.RoundTripper = otelhttp.NewTransport(http.DefaultTransport)
	if m != nil {
		rt = m.InstrumentTransport(rt)
	}
	return &http.Client{Timeout: timeout, Transport: rt}
}

// NewBackendClient builds the SOC backend client from config.
func NewBackendClient(cfg *config.Config, m *Metrics) *sdk.Client {
	return sdk.NewClient(cfg.APIURL,
		sdk.WithHTTPClient(NewHTTPClient(cfg.Timeout, m)),
		sdk.WithRequestIDs(),
	)
}
