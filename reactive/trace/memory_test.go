package trace

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryRecorder_AppendAndHistory(t *testing.T) {
	rec := NewMemoryRecorder()
	ctx := context.Background()

	if err := rec.Append(ctx, Record{NodeID: 1, Kind: "value", Op: "write", Changed: true}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := rec.Append(ctx, Record{NodeID: 2, Kind: "observer", Op: "evaluate"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := rec.Append(ctx, Record{NodeID: 1, Kind: "value", Op: "write", Changed: false}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	history, err := rec.History(ctx, 1)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("len(history) = %d, want 2", len(history))
	}
	if history[0].Seq >= history[1].Seq {
		t.Fatalf("records out of order: seq %d then %d", history[0].Seq, history[1].Seq)
	}

	all, err := rec.History(ctx, 0)
	if err != nil {
		t.Fatalf("History(0): %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(all))
	}
}

func TestMemoryRecorder_ClosedRejectsCalls(t *testing.T) {
	rec := NewMemoryRecorder()
	ctx := context.Background()

	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := rec.Append(ctx, Record{NodeID: 1}); !errors.Is(err, ErrClosed) {
		t.Fatalf("Append after Close = %v, want ErrClosed", err)
	}
	if _, err := rec.History(ctx, 0); !errors.Is(err, ErrClosed) {
		t.Fatalf("History after Close = %v, want ErrClosed", err)
	}
}
