package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	engineTracer = otel.Tracer("darts-tournament/internal/usecase")
	untracedSpan = trace.SpanFromContext(context.Background())
)

// startUsecaseSpan only opens a child span when ctx already carries a trace.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if name == "" || !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, untracedSpan
	}
	return engineTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func tournamentAttr(tournamentID string) attribute.KeyValue {
	return attribute.String("tournament.id", tournamentID)
}
