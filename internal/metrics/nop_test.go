package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/PuoChen-SA/tickshard/types"
)

func TestNewNop(t *testing.T) {
	collector := NewNop()

	require.NotNil(t, collector)
	require.IsType(t, &NopMetrics{}, collector)
}

func TestNopMetrics_ImplementsCollector(t *testing.T) {
	var _ types.MetricsCollector = NewNop()
}

func TestNopMetrics_SchedulerMetrics(t *testing.T) {
	collector := NewNop()

	// Should not panic with various inputs
	require.NotPanics(t, func() {
		collector.RecordPartitionCount(42)
		collector.RecordPartitionCount(0)
		collector.RecordPartitionCount(-1)
		collector.RecordWorkerQueueDepth(0, 10)
		collector.RecordWorkerQueueDepth(3, 0)
	})
}

func TestNopMetrics_DispatchMetrics(t *testing.T) {
	collector := NewNop()

	// Should not panic with various inputs
	require.NotPanics(t, func() {
		collector.RecordBatchDuration(0, 0.0025)
		collector.RecordBatchDuration(7, 0)
		collector.IncrementTickError("unit")
		collector.IncrementTickError("partition")
		collector.IncrementTickError("")
	})
}

func TestNopMetrics_RebalanceMetrics(t *testing.T) {
	collector := NewNop()

	// Should not panic with various inputs
	require.NotPanics(t, func() {
		collector.RecordRebalanceDuration(1.5)
		collector.RecordUnitMigrations(128)
		collector.RecordRemovalsDrained(3)
		collector.RecordRemovalsDrained(0)
	})
}

func BenchmarkNopMetrics_RecordBatchDuration(b *testing.B) {
	collector := NewNop()
	for b.Loop() {
		collector.RecordBatchDuration(0, 0.001)
	}
}

func BenchmarkNopMetrics_RecordPartitionCount(b *testing.B) {
	collector := NewNop()
	for b.Loop() {
		collector.RecordPartitionCount(64)
	}
}
