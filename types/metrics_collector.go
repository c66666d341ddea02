package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// All methods are called from internal goroutines and must be thread-safe.
//
// This interface composes smaller, domain-focused interfaces for better
// modularity.
type MetricsCollector interface {
	SchedulerMetrics
	DispatchMetrics
	RebalanceMetrics
}

// SchedulerMetrics defines metrics for partition registration and worker
// pool state.
type SchedulerMetrics interface {
	// RecordPartitionCount sets the current tracked partition count (gauge metric).
	RecordPartitionCount(count int)

	// RecordWorkerQueueDepth sets the number of batches waiting in a
	// worker's queue at dispatch time (gauge metric).
	RecordWorkerQueueDepth(workerID, depth int)
}

// DispatchMetrics defines metrics for per-tick dispatch operations.
type DispatchMetrics interface {
	// RecordBatchDuration records the time a worker spent executing one
	// tick batch.
	//
	// Parameters:
	//   - workerID: Pool index of the worker that ran the batch
	//   - duration: Time taken in seconds
	RecordBatchDuration(workerID int, duration float64)

	// IncrementTickError records a failed partition or unit tick.
	//
	// Parameters:
	//   - kind: Failure kind ("partition" or "unit" for returned errors,
	//     "panic" for recovered panics)
	IncrementTickError(kind string)
}

// RebalanceMetrics defines metrics for rebalance sweep operations.
type RebalanceMetrics interface {
	// RecordRebalanceDuration records the time taken for a full rebalance
	// sweep in seconds.
	RecordRebalanceDuration(duration float64)

	// RecordUnitMigrations records units moved between partition entries
	// during a sweep.
	RecordUnitMigrations(count int)

	// RecordRemovalsDrained records units drained from the pending-removal
	// set during a sweep.
	RecordRemovalsDrained(count int)
}
