package reactive

// kind discriminates the three node types described in spec.md §3. A
// single struct carries fields for all three rather than an interface
// hierarchy — the node kinds share almost all of their bookkeeping (id,
// edges, validity, exec count) and only differ in what runs and what, if
// anything, gets cached.
type kind int

const (
	kindValue kind = iota
	kindExpression
	kindObserver
)

// node is the shared representation of a value, expression, or observer
// node. Edges are re-derived on every (re-)evaluation per spec.md's
// "Invariants": sources and dependents always reflect the most recent run.
//
// Grounded on the Node/Edge shape of the teacher's graph/node.go and
// graph/edge.go, adapted from a static workflow DAG (edges fixed at graph
// construction) to a dynamic dataflow graph (edges rebuilt per read).
type node struct {
	id   int
	kind kind

	// sources holds the nodes this node read (outside isolate frames)
	// during its last evaluation, keyed by id for O(1) dedup. Only
	// expression and observer nodes have sources; value nodes have none.
	sources map[int]*node

	// dependents holds the nodes that read this node during their last
	// evaluation, keyed by id. Only value and expression nodes have
	// dependents; observers have no outgoing edges (spec.md §3.3).
	dependents map[int]*node

	// valid is true for a value node always, and for an expression node
	// when its cache is trustworthy. An observer's valid stays true; its
	// pending/clean state is carried by queued instead.
	valid bool

	// queued is true while an observer sits in the runtime's pending
	// queue. Unused by value/expression nodes.
	queued bool

	// running is true for the duration of an expression's own compute
	// call. It lets invalidate distinguish "someone else invalidated me"
	// from "my own write, mid-evaluation, reached a value I read earlier
	// in this same run" (spec.md §4.2's self-write case): the latter must
	// not flip valid right under the running evaluation's feet, only
	// record dirtyDuringRun for evaluateExpression to act on once f returns.
	running bool

	// dirtyDuringRun is set by invalidate when it reaches a node that is
	// currently running. It tells the just-finished evaluation that its
	// own result is already stale, so it must stay invalid and force
	// propagation regardless of what value-equality gating would otherwise
	// decide.
	dirtyDuringRun bool

	// execCount is the number of times this node's function body has
	// actually run: f() for an expression, g() for an observer. Value
	// nodes never run a function body, so their execCount is always 0.
	execCount int

	// value node fields.
	current any

	// expression node fields.
	compute func() any
	cached  any

	// observer node fields.
	effect func()
}

func newNode(id int, k kind) *node {
	return &node{
		id:         id,
		kind:       k,
		sources:    make(map[int]*node),
		dependents: make(map[int]*node),
	}
}

// recordRead registers the bidirectional edge src -> dep, called whenever
// dep reads src while dep is the current tracker. A node reading itself
// (the cyclic-read fallback of spec.md §7) registers no edge: self-edges
// would make a node its own dependent and re-invalidate itself forever.
func recordRead(src, dep *node) {
	if src == dep {
		return
	}
	src.dependents[dep.id] = dep
	dep.sources[src.id] = src
}

// clearSources removes n from the dependents set of every node it
// previously read, then empties its own source set. Called at the start
// of every expression/observer evaluation so edges are re-derived from
// scratch (spec.md's "Invariants": edges always reflect the most recent
// evaluation).
func (n *node) clearSources() {
	for _, src := range n.sources {
		delete(src.dependents, n.id)
	}
	n.sources = make(map[int]*node)
}
