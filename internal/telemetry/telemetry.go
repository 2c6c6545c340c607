// Package telemetry configures the global OpenTelemetry tracer provider.
package telemetry

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// Config selects the span exporter
type Config struct {
	ServiceName    string
	ServiceVersion string
	OTLPEndpoint   string    // host:port of an OTLP/HTTP collector; takes precedence
	Stdout         io.Writer // pretty-printed spans when no collector is set; nil disables
}

func newStdoutExporter(w io.Writer) (trace.SpanExporter, error) {
	return stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
}

func newCollectorExporter(endpoint string) (trace.SpanExporter, error) {
	endpoint = strings.TrimPrefix(endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	return otlptracehttp.New(
		context.Background(),
		otlptracehttp.WithInsecure(),
		otlptracehttp.WithEndpoint(endpoint),
	)
}

func newResource(cfg Config) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
	)
}

// NewProvider installs a tracer provider as the global default and returns
// its teardown func. With no exporter configured the global no-op provider is
// left in place, so spans cost nothing.
func NewProvider(cfg Config, logger *slog.Logger) (func(context.Context), error) {
	var (
		exp trace.SpanExporter
		err error
	)
	switch {
	case cfg.OTLPEndpoint != "":
		logger.Info("tracing to OTLP collector", "endpoint", cfg.OTLPEndpoint)
		exp, err = newCollectorExporter(cfg.OTLPEndpoint)
	case cfg.Stdout != nil:
		logger.Info("tracing to stdout")
		exp, err = newStdoutExporter(cfg.Stdout)
	default:
		return func(context.Context) {}, nil
	}
	if err != nil {
		return nil, err
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exp),
		trace.WithResource(newResource(cfg)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return func(ctx context.Context) {
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("unable to shutdown trace provider", "error", err)
		}
	}, nil
}
