// Package emit provides reactive.Emitter implementations: backends that
// observe runtime activity (node creation, reads, writes, invalidation,
// evaluation, flush) without influencing engine semantics.
package emit

import "github.com/dshills/reactive-go/reactive"

// NullEmitter discards every event. Useful as the default when a caller
// wants WithEmitter wired (for symmetry with tests or future swapping)
// but has no observability backend yet.
type NullEmitter struct{}

// NewNullEmitter returns a NullEmitter. Safe for concurrent use; it does
// nothing.
func NewNullEmitter() *NullEmitter { return &NullEmitter{} }

func (NullEmitter) Emit(reactive.Event) {}
