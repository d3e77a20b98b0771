// Package trace wires OpenTelemetry tracing for calls to the project store.
package trace

import (
	"context"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracerName is the instrumentation name used for store spans.
const TracerName = "projecttable/store"

// OTLPExporter exports store spans to an OTLP endpoint.
type OTLPExporter struct {
	provider *sdktrace.TracerProvider
	enabled  bool
}

// NewOTLPExporter creates an OTLP exporter if OTEL_EXPORTER_OTLP_ENDPOINT is set.
// Returns nil if the endpoint is not configured (disabled).
func NewOTLPExporter(ctx context.Context) (*OTLPExporter, error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		return nil, nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
	if os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") != "false" {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}

	serviceName := os.Getenv("OTEL_SERVICE_NAME")
	if serviceName == "" {
		serviceName = "projecttable"
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	return &OTLPExporter{provider: provider, enabled: true}, nil
}

// TracerProvider returns the exporter's provider, or a no-op provider when
// the exporter is disabled.
func (e *OTLPExporter) TracerProvider() oteltrace.TracerProvider {
	if e == nil || !e.enabled {
		return noop.NewTracerProvider()
	}
	return e.provider
}

// Shutdown flushes and closes the exporter.
func (e *OTLPExporter) Shutdown(ctx context.Context) error {
	if e == nil {
		return nil
	}
	return e.provider.Shutdown(ctx)
}

// Attr maps a short key to the projecttable.* attribute namespace.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String("projecttable."+key, value)
}

// IntAttr is Attr for integer values.
func IntAttr(key string, value int) attribute.KeyValue {
	return attribute.Int("projecttable."+key, value)
}
