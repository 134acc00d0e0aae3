// Package metrics provides a reactive.MetricsSink backed by Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusCollector implements reactive.MetricsSink, adapted from the
// teacher's PrometheusMetrics (graph/metrics.go) to the four signals a
// single-threaded dependency-tracking engine actually produces: there is
// no concurrency here to report inflight/backpressure on.
//
// Metrics (all namespaced "reactive"):
//
//   - pending_queue_depth (gauge) — size of the flush queue.
//   - flush_duration_seconds (histogram) — wall time of one Flush call.
//   - node_evaluations_total{kind} (counter) — expression/observer runs.
//   - invalidations_total{kind} (counter) — invalidate() calls that
//     actually flipped a node from valid/clean to invalid/pending.
type PrometheusCollector struct {
	queueDepth    prometheus.Gauge
	flushDuration prometheus.Histogram
	evaluations   *prometheus.CounterVec
	invalidations *prometheus.CounterVec
}

// NewPrometheusCollector registers all four metrics with registry (the
// default registerer if nil) and returns the collector.
func NewPrometheusCollector(registry prometheus.Registerer) *PrometheusCollector {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &PrometheusCollector{
		queueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "reactive",
			Name:      "pending_queue_depth",
			Help:      "Number of observers currently pending in the flush queue.",
		}),
		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "reactive",
			Name:      "flush_duration_seconds",
			Help:      "Wall-clock duration of a single Flush call.",
			Buckets:   prometheus.DefBuckets,
		}),
		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reactive",
			Name:      "node_evaluations_total",
			Help:      "Count of expression/observer function bodies actually run.",
		}, []string{"kind"}),
		invalidations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reactive",
			Name:      "invalidations_total",
			Help:      "Count of invalidate() calls that changed a node's state.",
		}, []string{"kind"}),
	}
}

func (p *PrometheusCollector) ObserveQueueDepth(n int) {
	p.queueDepth.Set(float64(n))
}

func (p *PrometheusCollector) ObserveFlushDuration(d time.Duration) {
	p.flushDuration.Observe(d.Seconds())
}

func (p *PrometheusCollector) IncEvaluation(kind string) {
	p.evaluations.WithLabelValues(kind).Inc()
}

func (p *PrometheusCollector) IncInvalidation(kind string) {
	p.invalidations.WithLabelValues(kind).Inc()
}
