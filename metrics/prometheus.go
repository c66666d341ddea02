package metrics

import (
	"strconv"
	"sync"

	"github.com/PuoChen-SA/tickshard/types"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Metrics are registered lazily on first use so that constructing the
// collector never panics on duplicate registration in tests that share the
// default registerer.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	partitionsGauge   prometheus.Gauge
	queueDepthGauge   *prometheus.GaugeVec
	batchDuration     *prometheus.HistogramVec
	tickErrors        *prometheus.CounterVec
	rebalanceDuration prometheus.Histogram
	unitMigrations    prometheus.Counter
	removalsDrained   prometheus.Counter
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "tickshard" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "tickshard"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.partitionsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "scheduler",
			Name:      "partitions_current",
			Help:      "Current number of tracked partitions.",
		})

		p.queueDepthGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "scheduler",
			Name:      "worker_queue_depth",
			Help:      "Batches waiting in a worker's queue at dispatch time.",
		}, []string{"worker"})

		p.batchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "dispatch",
			Name:      "batch_duration_seconds",
			Help:      "Time a worker spent executing one tick batch.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms .. ~1s
		}, []string{"worker"})

		p.tickErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "dispatch",
			Name:      "tick_errors_total",
			Help:      "Total failed ticks by kind (partition, unit, panic).",
		}, []string{"kind"})

		p.rebalanceDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "rebalance",
			Name:      "sweep_duration_seconds",
			Help:      "Duration of rebalance sweeps in seconds.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		})

		p.unitMigrations = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "rebalance",
			Name:      "unit_migrations_total",
			Help:      "Total units moved between partition entries by sweeps.",
		})

		p.removalsDrained = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "rebalance",
			Name:      "removals_drained_total",
			Help:      "Total units drained from the pending-removal set.",
		})

		p.reg.MustRegister(p.partitionsGauge)
		p.reg.MustRegister(p.queueDepthGauge)
		p.reg.MustRegister(p.batchDuration)
		p.reg.MustRegister(p.tickErrors)
		p.reg.MustRegister(p.rebalanceDuration)
		p.reg.MustRegister(p.unitMigrations)
		p.reg.MustRegister(p.removalsDrained)
	})
}

// SchedulerMetrics implementation

// RecordPartitionCount sets the tracked partition gauge.
func (p *PrometheusCollector) RecordPartitionCount(count int) {
	p.ensureRegistered()
	p.partitionsGauge.Set(float64(count))
}

// RecordWorkerQueueDepth sets the per-worker queue depth gauge.
func (p *PrometheusCollector) RecordWorkerQueueDepth(workerID, depth int) {
	p.ensureRegistered()
	p.queueDepthGauge.WithLabelValues(strconv.Itoa(workerID)).Set(float64(depth))
}

// DispatchMetrics implementation

// RecordBatchDuration observes one worker batch execution.
func (p *PrometheusCollector) RecordBatchDuration(workerID int, duration float64) {
	p.ensureRegistered()
	p.batchDuration.WithLabelValues(strconv.Itoa(workerID)).Observe(duration)
}

// IncrementTickError increments the tick error counter for the given kind.
func (p *PrometheusCollector) IncrementTickError(kind string) {
	p.ensureRegistered()
	p.tickErrors.WithLabelValues(kind).Inc()
}

// RebalanceMetrics implementation

// RecordRebalanceDuration observes one rebalance sweep.
func (p *PrometheusCollector) RecordRebalanceDuration(duration float64) {
	p.ensureRegistered()
	p.rebalanceDuration.Observe(duration)
}

// RecordUnitMigrations adds to the unit migration counter.
func (p *PrometheusCollector) RecordUnitMigrations(count int) {
	p.ensureRegistered()
	p.unitMigrations.Add(float64(count))
}

// RecordRemovalsDrained adds to the removal drain counter.
func (p *PrometheusCollector) RecordRemovalsDrained(count int) {
	p.ensureRegistered()
	p.removalsDrained.Add(float64(count))
}
