// Package telemetry wires Prometheus metrics and OpenTelemetry tracing into
// the backend HTTP client and the dashboard server.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "socdash"

// Metrics holds the socdash collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	uploads  *prometheus.CounterVec
	pages    *prometheus.CounterVec
}

// NewMetrics registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Requests sent to the SOC backend.",
		}, []string{"code", "method"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Latency of SOC backend requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Log uploads by result.",
		}, []string{"result"}),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dashboard_requests_total",
			Help:      "Dashboard HTTP requests.",
		}, []string{"code", "method"}),
	}
	m.registry.MustRegister(
		m.requests, m.duration, m.uploads, m.pages,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// InstrumentTransport counts and times requests made through rt.
func (m *Metrics) InstrumentTransport(rt http.RoundTripper) http.RoundTripper {
	return promhttp.InstrumentRoundTripperCounter(m.requests,
		promhttp.InstrumentRoundTripperDuration(m.duration, rt))
}

// InstrumentHandler counts requests served by h.
func (m *Metrics) InstrumentHandler(h http.Handler) http.Handler {
	return promhttp.InstrumentHandlerCounter(m.pages, h)
}

// ObserveUpload records the outcome of one log upload.
func (m *Metrics) ObserveUpload(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.uploads.WithLabelValues(result).Inc()
}

// Registry exposes the underlying registry for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
