package trace

import (
	"context"

	"github.com/dshills/reactive-go/reactive"
)

// RecordingEmitter adapts a Recorder into a reactive.Emitter, so
// WithEmitter(trace.NewRecordingEmitter(rec, runID)) is enough to
// persist every node event a Runtime produces. The engine itself has no
// notion of a "run" — runID is stamped on by the caller (cmd/reactorctl
// mints one per scenario with google/uuid) so records from separate
// invocations sharing one recorder can still be told apart.
type RecordingEmitter struct {
	rec   Recorder
	runID string
}

// NewRecordingEmitter wraps rec so it can be passed to
// reactive.WithEmitter. runID may be empty if the caller doesn't need to
// distinguish runs.
func NewRecordingEmitter(rec Recorder, runID string) *RecordingEmitter {
	return &RecordingEmitter{rec: rec, runID: runID}
}

// Emit appends ev to the underlying Recorder, discarding any append
// error: a trace backend going down must never stop the engine it is
// merely observing.
func (e *RecordingEmitter) Emit(ev reactive.Event) {
	_ = e.rec.Append(context.Background(), Record{
		NodeID:   ev.NodeID,
		Kind:     ev.Kind,
		Op:       ev.Op,
		RunID:    e.runID,
		Changed:  ev.Changed,
		Err:      errString(ev.Err),
		Duration: ev.Duration,
	})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
