package metrics

import "github.com/PuoChen-SA/tickshard/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// SchedulerMetrics implementation

// RecordPartitionCount discards the partition count metric.
func (n *NopMetrics) RecordPartitionCount(_ /* count */ int) {
	// No-op
}

// RecordWorkerQueueDepth discards the worker queue depth metric.
func (n *NopMetrics) RecordWorkerQueueDepth(_ /* workerID */, _ /* depth */ int) {
	// No-op
}

// DispatchMetrics implementation

// RecordBatchDuration discards the batch duration metric.
func (n *NopMetrics) RecordBatchDuration(_ /* workerID */ int, _ /* duration */ float64) {
	// No-op
}

// IncrementTickError discards the tick error counter.
func (n *NopMetrics) IncrementTickError(_ /* kind */ string) {
	// No-op
}

// RebalanceMetrics implementation

// RecordRebalanceDuration discards the rebalance duration metric.
func (n *NopMetrics) RecordRebalanceDuration(_ /* duration */ float64) {
	// No-op
}

// RecordUnitMigrations discards the unit migration counter.
func (n *NopMetrics) RecordUnitMigrations(_ /* count */ int) {
	// No-op
}

// RecordRemovalsDrained discards the removal drain counter.
func (n *NopMetrics) RecordRemovalsDrained(_ /* count */ int) {
	// No-op
}
