// Package observability provides optional OpenTelemetry stage tracing.
// When enabled, each cleaning stage and connector operation runs inside a
// span exported through the stdout trace exporter; when disabled, the
// no-op tracer from the default provider keeps the call sites free.
package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/scourdata/scour/pkg/errors"
)

const tracerName = "github.com/scourdata/scour"

// InitTracing installs a tracer provider backed by the stdout exporter
// and returns its shutdown function, which flushes pending spans.
func InitTracing() (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to create trace exporter")
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(provider)
	return provider.Shutdown, nil
}

// Tracer returns the scour tracer from the installed provider.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StartStage opens a span for one cleaning stage, carrying the job name
// and stage as attributes.
func StartStage(ctx context.Context, job, stage string) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "clean."+stage,
		trace.WithAttributes(
			attribute.String("scour.job", job),
			attribute.String("scour.stage", stage),
		))
}

// StartConnector opens a span for a connector operation (load or write).
func StartConnector(ctx context.Context, connector, op string) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "connector."+op,
		trace.WithAttributes(
			attribute.String("scour.connector", connector),
		))
}
