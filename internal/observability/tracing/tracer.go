// Package tracing provides OpenTelemetry tracing for the analyzer.
//
// Setup installs an SDK tracer provider and the W3C trace context propagator.
// No exporter is configured: spans carry real trace IDs, which are echoed in
// the X-Trace-Id response header and attached to log lines.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName names the tracer used throughout the application.
const InstrumentationName = "text-analyzer"

// Tracer returns the application tracer from the current global provider.
//
//	ctx, span := tracing.Tracer().Start(ctx, "analyze")
//	defer span.End()
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

// Setup registers a global tracer provider for serviceName and returns its shutdown function.
func Setup(serviceName string) func(context.Context) error {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
		)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp.Shutdown
}

// TraceID returns the trace ID of the span in ctx, or "" when there is none.
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
