package messaging

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestTraceContext_RoundTrip(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	headers := injectTraceContext(ctx)
	if len(headers) == 0 {
		t.Fatal("expected trace headers to be injected")
	}

	found := false
	for _, h := range headers {
		if h.Key == "traceparent" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected traceparent header")
	}

	extracted := trace.SpanContextFromContext(extractTraceContext(context.Background(), headers))
	if extracted.TraceID() != traceID {
		t.Errorf("trace id not propagated: got %s", extracted.TraceID())
	}
}

func TestInjectTraceContext_NoSpan(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	headers := injectTraceContext(context.Background())
	if len(headers) != 0 {
		t.Errorf("expected no headers without a span context, got %v", headers)
	}
}
