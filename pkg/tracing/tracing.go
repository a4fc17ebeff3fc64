// Package tracing wraps the otel API with the span helpers shared by the
// services and the HTTP layer.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "taskdeck"

// CreateChildSpan starts a span under the current context span.
func CreateChildSpan(ctx context.Context, name string, attrs []attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)

	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// AddSpanError records err and marks the span failed.
func AddSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// GetTraceID extracts the trace id from ctx, empty when not recording.
func GetTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)

	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}

	return ""
}

// SpanWrapper runs fn inside a span, recording any returned error.
func SpanWrapper(ctx context.Context, name string, attrs []attribute.KeyValue, fn func(context.Context) error) error {
	ctx, span := CreateChildSpan(ctx, name, attrs)
	defer span.End()

	err := fn(ctx)

	if err != nil {
		AddSpanError(span, err)
	}

	return err
}

// ServiceSpanWrapper is SpanWrapper with the conventional service attributes.
func ServiceSpanWrapper(ctx context.Context, service, operation string, userID int, fn func(context.Context) error) error {
	attrs := []attribute.KeyValue{
		attribute.String("service.name", service),
		attribute.String("service.operation", operation),
		attribute.Int("user.id", userID),
	}

	return SpanWrapper(ctx, fmt.Sprintf("service.%s.%s", service, operation), attrs, fn)
}
