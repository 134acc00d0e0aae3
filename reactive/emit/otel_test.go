package emit

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/dshills/reactive-go/reactive"
)

func TestOTelEmitter_Emit(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	emitter := NewOTelEmitter(tp.Tracer("reactive-test"))
	emitter.Emit(reactive.Event{Kind: "expression", Op: "evaluate", NodeID: 3, Changed: true, Duration: 5 * time.Millisecond})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("len(spans) = %d, want 1", len(spans))
	}
	span := spans[0]
	if span.Name != "expression.evaluate" {
		t.Errorf("span name = %q, want %q", span.Name, "expression.evaluate")
	}
	attrs := attributeMap(span.Attributes)
	if attrs["reactive.node_id"] != int64(3) {
		t.Errorf("node_id attr = %v, want 3", attrs["reactive.node_id"])
	}
	if attrs["reactive.changed"] != true {
		t.Errorf("changed attr = %v, want true", attrs["reactive.changed"])
	}
	if attrs["reactive.duration_ms"] != int64(5) {
		t.Errorf("duration_ms attr = %v, want 5", attrs["reactive.duration_ms"])
	}
	if !span.EndTime.After(span.StartTime) {
		t.Error("span was not ended")
	}
}

func TestOTelEmitter_EmitWithError(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	emitter := NewOTelEmitter(tp.Tracer("reactive-test"))
	emitter.Emit(reactive.Event{Kind: "observer", Op: "evaluate", NodeID: 7, Err: errors.New("boom")})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("len(spans) = %d, want 1", len(spans))
	}
	span := spans[0]
	if span.Status.Code != codes.Error {
		t.Errorf("status code = %v, want %v", span.Status.Code, codes.Error)
	}
	if span.Status.Description != "boom" {
		t.Errorf("status description = %q, want %q", span.Status.Description, "boom")
	}
	if len(span.Events) == 0 {
		t.Error("expected a recorded error event, got none")
	}
}

func attributeMap(attrs []attribute.KeyValue) map[string]any {
	m := make(map[string]any)
	for _, kv := range attrs {
		m[string(kv.Key)] = kv.Value.AsInterface()
	}
	return m
}
