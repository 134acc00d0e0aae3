package emit

import (
	"sync"

	"github.com/dshills/reactive-go/reactive"
)

// BufferedEmitter stores every event in memory, grouped by node kind, for
// inspection after a run (tests, a debugger, a CLI's `--trace` flag).
//
// Warning: unbounded. Not meant for long-lived production processes —
// reactive/trace.Recorder exists for that.
type BufferedEmitter struct {
	mu     sync.RWMutex
	events map[string][]reactive.Event // kind -> events
}

// NewBufferedEmitter returns an empty BufferedEmitter. Safe for concurrent
// use even though the core engine itself is single-threaded — callers may
// read history from a different goroutine than the one driving the Runtime.
func NewBufferedEmitter() *BufferedEmitter {
	return &BufferedEmitter{events: make(map[string][]reactive.Event)}
}

func (b *BufferedEmitter) Emit(ev reactive.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events[ev.Kind] = append(b.events[ev.Kind], ev)
}

// History returns a copy of every event recorded for the given kind
// ("value", "expression", "observer", "runtime").
func (b *BufferedEmitter) History(kind string) []reactive.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	events := b.events[kind]
	out := make([]reactive.Event, len(events))
	copy(out, events)
	return out
}

// All returns a copy of every event recorded, across all kinds, in the
// order Emit received them within each kind (kinds themselves are
// returned in no particular order — callers needing total order should
// record step with an external counter via their own Emitter wrapper).
func (b *BufferedEmitter) All() []reactive.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []reactive.Event
	for _, evs := range b.events {
		out = append(out, evs...)
	}
	return out
}

// Clear discards all recorded events.
func (b *BufferedEmitter) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = make(map[string][]reactive.Event)
}
