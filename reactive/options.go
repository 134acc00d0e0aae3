package reactive

import "time"

// Event describes one piece of runtime activity for the ambient
// observability stack (reactive/emit, reactive/metrics). The core engine
// never reads these back — they flow one way, out to whatever Option
// wired an Emitter or MetricsSink in, matching spec.md §1's framing of
// the surface as an "external collaborator".
type Event struct {
	// Kind is "value", "expression", or "observer", or "runtime" for
	// runtime-level events such as "flush".
	Kind string
	// Op is "create", "read", "write", "invalidate", "evaluate", or
	// "flush".
	Op string
	// NodeID is the id of the node this event concerns; zero for
	// runtime-level events such as "flush".
	NodeID int
	// Changed is meaningful for write/evaluate events: whether the new
	// value differed (by host equality) from what was there before.
	Changed bool
	// Duration is set for "flush" events only.
	Duration time.Duration
	// Err is set when the event reports a user-function failure.
	Err error
}

// Emitter receives Events as the runtime creates nodes, writes values,
// invalidates dependents, evaluates expressions/observers, and flushes.
// Grounded on the teacher's graph/emit.Emitter interface, narrowed to a
// single method because the reactive engine is synchronous and has no
// batch boundary to amortize over.
type Emitter interface {
	Emit(Event)
}

// MetricsSink receives aggregate counters and timings. Implemented by
// reactive/metrics.PrometheusCollector; without WithMetrics it is unset
// and the runtime skips all sink calls.
type MetricsSink interface {
	ObserveQueueDepth(n int)
	ObserveFlushDuration(d time.Duration)
	IncEvaluation(kind string)
	IncInvalidation(kind string)
}

// Option configures a Runtime at construction. Grounded on the teacher's
// graph/options.go functional-option pattern.
type Option func(*config)

type config struct {
	emitter            Emitter
	metrics            MetricsSink
	equal              EqualFunc
	maxFlushIterations int
}

func defaultConfig() *config {
	return &config{
		equal:              hostEqual,
		maxFlushIterations: 0, // unbounded, per spec.md §9
	}
}

// WithEmitter attaches an Emitter that observes runtime activity. Purely
// ambient: no Emitter call can influence engine semantics.
func WithEmitter(e Emitter) Option {
	return func(c *config) { c.emitter = e }
}

// WithMetrics attaches a MetricsSink.
func WithMetrics(m MetricsSink) Option {
	return func(c *config) { c.metrics = m }
}

// WithEqual overrides the host-equality function used to gate
// memoization (spec.md §9: "Implementers must pick a host-structural
// equality..."). Most callers never need this; it exists for value
// types whose meaningful equality differs from reflect.DeepEqual (for
// example, a payload containing a function field or a monotonic
// timestamp that should be ignored).
func WithEqual(eq EqualFunc) Option {
	return func(c *config) { c.equal = eq }
}

// WithMaxFlushIterations bounds the number of observer evaluations a
// single Flush call will perform before giving up with
// ErrMaxFlushIterations. Spec.md §9 calls this "a reasonable addition
// but... not required"; the default, 0, means unbounded — a
// non-terminating graph loops forever, exactly as §9 documents.
func WithMaxFlushIterations(n int) Option {
	return func(c *config) { c.maxFlushIterations = n }
}
