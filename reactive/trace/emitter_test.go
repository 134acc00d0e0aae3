package trace

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/reactive-go/reactive"
)

func TestRecordingEmitter_Emit(t *testing.T) {
	mem := NewMemoryRecorder()
	emitter := NewRecordingEmitter(mem, "run-1")

	emitter.Emit(reactive.Event{Kind: "expression", Op: "evaluate", NodeID: 4, Changed: true})
	emitter.Emit(reactive.Event{Kind: "observer", Op: "evaluate", NodeID: 5, Err: errors.New("boom")})

	history, err := mem.History(context.Background(), 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("len(history) = %d, want 2", len(history))
	}
	if history[0].NodeID != 4 || !history[0].Changed || history[0].RunID != "run-1" {
		t.Fatalf("history[0] = %+v, want NodeID=4 Changed=true RunID=run-1", history[0])
	}
	if history[1].Err != "boom" {
		t.Fatalf("history[1].Err = %q, want %q", history[1].Err, "boom")
	}
}
