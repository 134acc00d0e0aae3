// Package reactive implements a fine-grained reactive runtime: a
// dependency-tracking evaluator for dataflow graphs built from three node
// kinds — mutable values, memoized expressions, and side-effecting
// observers.
//
// Reads performed while a node is evaluating register edges automatically;
// writes to a value propagate invalidation to its dependents; Flush drains
// the pending observer queue to a fixed point, pulling expression
// recomputation along the way. The runtime is single-threaded and
// synchronous by design — see Runtime for the external surface.
package reactive
