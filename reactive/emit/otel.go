package emit

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dshills/reactive-go/reactive"
)

// OTelEmitter turns each Event into a zero-duration OpenTelemetry span —
// the engine reports points in time (a read, a write, an evaluation), not
// operations with their own start/end, so there is no span to keep open
// across the call.
type OTelEmitter struct {
	tracer trace.Tracer
}

// NewOTelEmitter returns an OTelEmitter using tracer (e.g.
// otel.Tracer("reactive")).
func NewOTelEmitter(tracer trace.Tracer) *OTelEmitter {
	return &OTelEmitter{tracer: tracer}
}

func (o *OTelEmitter) Emit(ev reactive.Event) {
	_, span := o.tracer.Start(context.Background(), ev.Kind+"."+ev.Op)
	defer span.End()

	span.SetAttributes(
		attribute.String("reactive.kind", ev.Kind),
		attribute.String("reactive.op", ev.Op),
		attribute.Int("reactive.node_id", ev.NodeID),
		attribute.Bool("reactive.changed", ev.Changed),
	)
	if ev.Duration > 0 {
		span.SetAttributes(attribute.Int64("reactive.duration_ms", ev.Duration.Milliseconds()))
	}
	if ev.Err != nil {
		span.SetStatus(codes.Error, ev.Err.Error())
		span.RecordError(ev.Err)
	}
}
