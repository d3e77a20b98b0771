package store

import (
	"net/http"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"projecttable/internal/metrics"
	"projecttable/internal/trace"
)

// DefaultTimeout bounds every store request unless overridden.
const DefaultTimeout = 10 * time.Second

// Option configures a Client or Collection.
type Option func(*options)

type options struct {
	httpClient *http.Client
	logger     *zap.Logger
	tracer     oteltrace.Tracer
	metrics    *metrics.Metrics
}

func newOptions(opts []Option) options {
	o := options{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zap.NewNop(),
		tracer:     noop.NewTracerProvider().Tracer(trace.TracerName),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.httpClient = &http.Client{Timeout: d, Transport: o.httpClient.Transport}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTracerProvider traces every request with a tracer from tp.
func WithTracerProvider(tp oteltrace.TracerProvider) Option {
	return func(o *options) {
		if tp != nil {
			o.tracer = tp.Tracer(trace.TracerName)
		}
	}
}

// WithMetrics records request counts and latency.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}
