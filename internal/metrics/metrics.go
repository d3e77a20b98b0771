// Package metrics collects request metrics for calls to the project store.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics records store requests on a private registry.
type Metrics struct {
	reqTotal   *prometheus.CounterVec
	reqLatency *prometheus.HistogramVec
	registry   *prometheus.Registry
}

// New creates a Metrics instance with its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	reqTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "projecttable",
			Name:      "store_requests_total",
			Help:      "Requests sent to the project store",
		},
		[]string{"op", "outcome"},
	)

	reqLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "projecttable",
			Name:      "store_request_duration_seconds",
			Help:      "Project store request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	registry.MustRegister(reqTotal, reqLatency)

	return &Metrics{
		reqTotal:   reqTotal,
		reqLatency: reqLatency,
		registry:   registry,
	}
}

// Observe records one finished request. A nil Metrics is a no-op.
func (m *Metrics) Observe(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.reqTotal.WithLabelValues(op, outcome).Inc()
	m.reqLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Requests returns the counter for op and outcome, for tests and status lines.
func (m *Metrics) Requests(op, outcome string) prometheus.Counter {
	return m.reqTotal.WithLabelValues(op, outcome)
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
