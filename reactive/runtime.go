package reactive

import "time"

// ValueHandle, ExprHandle, and ObserverHandle are opaque references to
// nodes created by a Runtime, matching the external interface of
// spec.md §6. They carry no exported fields; only a Runtime's methods
// can construct or dereference them, so a handle from one Runtime can't
// be (usefully) mixed into another.
type (
	ValueHandle    struct{ n *node }
	ExprHandle     struct{ n *node }
	ObserverHandle struct{ n *node }
)

// Runtime is the fine-grained reactive engine described by spec.md §2–§6:
// the context stack, the node graph, invalidation propagation, and the
// flush engine all live here. A Runtime is not safe for concurrent use
// from multiple goroutines (spec.md §5: "single-threaded, cooperative").
//
// Grounded on the teacher's graph.Engine — the constructor/functional-
// option wiring is the same shape, generalized from a static workflow
// engine to a dynamic dependency-tracking one.
type Runtime struct {
	cfg    *config
	stack  contextStack
	nextID int
	queue  []*node // FIFO pending-observer queue (spec.md §4.4)
}

// New creates a Runtime. With no options it behaves exactly as spec.md
// requires: host-structural equality, an unbounded flush, and no
// observability hooks.
func New(opts ...Option) *Runtime {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Runtime{cfg: cfg}
}

func (r *Runtime) allocID() int {
	r.nextID++
	return r.nextID
}

func (r *Runtime) emit(ev Event) {
	if r.cfg.emitter != nil {
		r.cfg.emitter.Emit(ev)
	}
}

// CreateValue creates a value node holding initial. Value nodes have no
// sources; they are the only node kind writable from outside (spec.md
// §3.1).
func (r *Runtime) CreateValue(initial any) ValueHandle {
	n := newNode(r.allocID(), kindValue)
	n.current = initial
	n.valid = true
	r.emit(Event{Kind: "value", Op: "create", NodeID: n.id})
	return ValueHandle{n: n}
}

// ReadValue returns the value's current contents. If a tracking frame is
// active, it registers the edge value -> tracker (spec.md §4.2).
func (r *Runtime) ReadValue(h ValueHandle) any {
	n := h.n
	if tracker := r.stack.currentTracker(); tracker != nil {
		recordRead(n, tracker)
	}
	r.emit(Event{Kind: "value", Op: "read", NodeID: n.id})
	return n.current
}

// WriteValue updates the value's contents. A write that produces a value
// equal (by the runtime's EqualFunc) to the current contents is a no-op
// for propagation (spec.md §4.2). Otherwise every direct dependent is
// invalidated; invalidation never recurses synchronously back into a
// running node, even if that node is among the dependents — it is only
// enqueued (observers) or marked (expressions).
func (r *Runtime) WriteValue(h ValueHandle, x any) {
	n := h.n
	changed := !r.cfg.equal(n.current, x)
	n.current = x
	r.emit(Event{Kind: "value", Op: "write", NodeID: n.id, Changed: changed})
	if !changed {
		return
	}
	for _, dep := range n.dependents {
		r.invalidate(dep)
	}
}

// CreateExpression creates a memoized expression node. f is not called
// until the expression is first read — expressions are lazy (spec.md
// §4.3).
func (r *Runtime) CreateExpression(f func() any) ExprHandle {
	n := newNode(r.allocID(), kindExpression)
	n.compute = f
	n.valid = false // invalid until first read, per spec.md §4.3
	r.emit(Event{Kind: "expression", Op: "create", NodeID: n.id})
	return ExprHandle{n: n}
}

// ReadExpression returns the expression's current result, recomputing it
// first if invalid. Recomputation clears and re-collects the node's
// source edges, so a branch not taken this run produces no edge (spec.md
// §4.3's laziness property).
func (r *Runtime) ReadExpression(h ExprHandle) any {
	n := h.n
	if !n.valid {
		if err := r.evaluateExpression(n); err != nil {
			panic(err)
		}
	}
	tracker := r.stack.currentTracker()
	if tracker != nil {
		recordRead(n, tracker)
	}
	if !n.valid && tracker != nil {
		// n finished its run still invalid (a self-write reached it mid-
		// evaluation, spec.md §4.2). The edge to tracker didn't exist yet
		// when evaluateExpression tried to propagate, so invalidate it
		// explicitly now that the edge above has just been recorded.
		r.invalidate(tracker)
	}
	return n.cached
}

// evaluateExpression runs f for an invalid expression node, handling the
// cyclic-eager-read and user-function-failure cases of spec.md §7.
func (r *Runtime) evaluateExpression(n *node) (err error) {
	if r.stack.onStack(n) {
		// A synchronous cycle: n's own evaluation transitively tries to
		// read n again. Per §7, the engine refuses to recurse into it;
		// the read resolves to whatever n.cached already holds (its
		// previous result, or the zero value if this is n's first run).
		// This never runs compute again and never touches execCount.
		return nil
	}

	n.clearSources()
	n.running = true
	n.dirtyDuringRun = false
	r.stack.pushTracking(n)

	var result any
	func() {
		defer func() {
			r.stack.popTracking(n)
			n.running = false
			if rec := recover(); rec != nil {
				err = &UserFunctionError{NodeID: n.id, Kind: "expression", Cause: asError(rec)}
			}
		}()
		result = n.compute()
	}()
	if err != nil {
		// n stays invalid; no partial cache update. Source edges recorded
		// by reads before the panic are dropped, so the failed run leaves
		// no partial edge state behind.
		n.clearSources()
		n.dirtyDuringRun = false
		r.emit(Event{Kind: "expression", Op: "evaluate", NodeID: n.id, Err: err})
		return err
	}

	changed := n.execCount == 0 || !r.cfg.equal(n.cached, result)
	n.cached = result
	n.execCount++

	if n.dirtyDuringRun {
		// A value n itself read earlier in this very run was written
		// again before the run finished (spec.md §4.2's self-write case).
		// This result is already stale: stay invalid and force
		// propagation so whoever is reading n gets enqueued again,
		// regardless of what value-equality gating would otherwise say.
		n.valid = false
		changed = true
	} else {
		n.valid = true
	}

	r.emit(Event{Kind: "expression", Op: "evaluate", NodeID: n.id, Changed: changed})
	if r.cfg.metrics != nil {
		r.cfg.metrics.IncEvaluation("expression")
	}

	if changed {
		for _, dep := range n.dependents {
			r.invalidate(dep)
		}
	}
	return nil
}

// CreateObserver creates an observer node and immediately invalidates it
// so it runs on the next Flush (spec.md §4.4: "Creation initially
// invalidates the observer").
func (r *Runtime) CreateObserver(g func()) ObserverHandle {
	n := newNode(r.allocID(), kindObserver)
	n.effect = g
	n.valid = true // observers track pending state in queued, set by invalidate below
	r.emit(Event{Kind: "observer", Op: "create", NodeID: n.id})
	r.invalidate(n)
	return ObserverHandle{n: n}
}

// invalidate marks n invalid (expressions) or enqueues n (observers),
// idempotently: invalidating an already-invalid expression, or an
// already-queued observer, is a no-op and does not re-propagate
// (spec.md §4.3/§4.4).
func (r *Runtime) invalidate(n *node) {
	switch n.kind {
	case kindExpression:
		if n.running {
			// n is invalidating itself mid-evaluation via a self-write
			// (spec.md §4.2). Don't flip valid/propagate now — the
			// running evaluation hasn't produced its result yet, and
			// would just overwrite this with valid=true on return.
			// evaluateExpression checks dirtyDuringRun once it finishes.
			n.dirtyDuringRun = true
			return
		}
		if !n.valid {
			return
		}
		n.valid = false
		r.emit(Event{Kind: "expression", Op: "invalidate", NodeID: n.id})
		if r.cfg.metrics != nil {
			r.cfg.metrics.IncInvalidation("expression")
		}
		for _, dep := range n.dependents {
			r.invalidate(dep)
		}
	case kindObserver:
		if n.queued {
			return
		}
		n.queued = true
		r.queue = append(r.queue, n)
		r.emit(Event{Kind: "observer", Op: "invalidate", NodeID: n.id})
		if r.cfg.metrics != nil {
			r.cfg.metrics.IncInvalidation("observer")
			r.cfg.metrics.ObserveQueueDepth(len(r.queue))
		}
	default:
		panic("reactive: invalidate called on a value node")
	}
}

// Isolate runs thunk with dependency registration suppressed: reads
// performed inside never produce edges (spec.md §6, §8 invariant 4).
// Isolate frames nest correctly with tracking frames and with each
// other.
func (r *Runtime) Isolate(thunk func() any) any {
	r.stack.pushIsolate()
	defer r.stack.popIsolate()
	return thunk()
}

// Flush drains the pending observer queue to a fixed point: pop the
// front observer, evaluate it if still pending, repeat until the queue
// is empty. Observers enqueued during evaluation (by self-writes or
// recursive cascades) continue the same loop (spec.md §4.4).
func (r *Runtime) Flush() error {
	start := time.Now()
	iterations := 0
	for len(r.queue) > 0 {
		if r.cfg.maxFlushIterations > 0 && iterations >= r.cfg.maxFlushIterations {
			return ErrMaxFlushIterations
		}
		n := r.queue[0]
		r.queue = r.queue[1:]
		if r.cfg.metrics != nil {
			r.cfg.metrics.ObserveQueueDepth(len(r.queue))
		}
		if !n.queued {
			// Already evaluated by a nested Flush path; can't happen in a
			// single-threaded runtime today, but guards against future
			// reentrant Flush calls from within an effect.
			continue
		}
		n.queued = false
		if err := r.evaluateObserver(n); err != nil {
			return err
		}
		iterations++
	}
	r.emit(Event{Kind: "runtime", Op: "flush", Duration: time.Since(start)})
	if r.cfg.metrics != nil {
		r.cfg.metrics.ObserveFlushDuration(time.Since(start))
	}
	return nil
}

func (r *Runtime) evaluateObserver(n *node) (err error) {
	n.clearSources()
	r.stack.pushTracking(n)
	defer func() {
		r.stack.popTracking(n)
		if rec := recover(); rec != nil {
			// Drop the failed run's partial edges and leave n pending so
			// the next Flush re-attempts it.
			n.clearSources()
			r.invalidate(n)
			err = &UserFunctionError{NodeID: n.id, Kind: "observer", Cause: asError(rec)}
		}
	}()
	n.effect()
	n.execCount++
	r.emit(Event{Kind: "observer", Op: "evaluate", NodeID: n.id})
	if r.cfg.metrics != nil {
		r.cfg.metrics.IncEvaluation("observer")
	}
	return nil
}

// ExecCount returns how many times the given node's function body
// (f for an expression, g for an observer) has actually run. Diagnostic
// only (spec.md §6). Value nodes always report 0.
func (r *Runtime) ExecCount(h any) int {
	switch v := h.(type) {
	case ValueHandle:
		return v.n.execCount
	case ExprHandle:
		return v.n.execCount
	case ObserverHandle:
		return v.n.execCount
	default:
		panic("reactive: ExecCount called with an unrecognized handle type")
	}
}
