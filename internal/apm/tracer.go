package apm

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Tracer narrows the OTEL tracing API to what the maintenance cycle
// code needs: open a span on the cycle context, or pick up the span
// already riding on it. Spans come back wrapped so call sites get
// NoticeError instead of the RecordError+SetStatus pair.
type Tracer interface {
	StartSpanFromContext(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, Span)
	SpanFromContext(ctx context.Context) Span
	GetTracer() trace.Tracer
}

type cycleTracer struct {
	tracer trace.Tracer
}

// NewTracer returns a Tracer backed by the globally registered OTEL
// provider. Before a provider is installed it hands out no-op spans,
// so construction order against telemetry setup does not matter.
func NewTracer(name string) Tracer {
	return &cycleTracer{
		otel.Tracer(name),
	}
}

func (t *cycleTracer) StartSpanFromContext(
	ctx context.Context, name string, opts ...trace.SpanStartOption,
) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, name, opts...)
	return ctx, NewSpan(span)
}

func (t *cycleTracer) SpanFromContext(ctx context.Context) Span {
	return NewSpan(trace.SpanFromContext(ctx))
}

func (t *cycleTracer) GetTracer() trace.Tracer {
	return t.tracer
}
