// Package trace persists the history a Recorder-backed Emitter observes,
// so a run can be inspected after the process exits. Grounded on the
// teacher's graph/store package, narrowed from full workflow
// checkpointing down to what a dependency graph actually needs to
// replay for a human: an append-only log of what happened to which
// node, in order.
package trace

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by any Recorder method called after Close.
var ErrClosed = errors.New("trace: recorder closed")

// Record is one entry in a node's history: a read, write, invalidate,
// or evaluate, with enough detail to reconstruct what the engine did
// without re-running it.
type Record struct {
	Seq    int64
	NodeID int
	Kind   string // "value", "expression", "observer", "runtime"
	Op     string // "create", "read", "write", "invalidate", "evaluate", "flush"
	// RunID tags the scenario/session that produced this record. Left
	// empty by the core engine (which has no notion of a "run"); set by
	// the emitter wrapper a caller like cmd/reactorctl installs.
	RunID     string
	Changed   bool
	Err       string
	Duration  time.Duration
	Timestamp time.Time
}

// Recorder appends Records and can play a node's (or the whole run's)
// history back. Implementations: MemoryRecorder, SQLiteRecorder,
// MySQLRecorder.
type Recorder interface {
	// Append persists one record. The recorder assigns Seq, replacing any
	// value the caller set. Timestamp is stored as the caller set it; no
	// recorder fills in a zero Timestamp.
	Append(ctx context.Context, rec Record) error

	// History returns every record for nodeID in the order it was
	// appended. nodeID of 0 returns every record regardless of node.
	History(ctx context.Context, nodeID int) ([]Record, error)

	// Close releases any underlying resources (file handles, DB
	// connections). Safe to call more than once.
	Close() error
}
