package types

// Registry receives the set of units visible to each worker at the start of
// a tick batch.
//
// The scheduler publishes once per worker per dispatch, before any partition
// in the batch ticks. Implementations typically refresh acquisition handles
// or visibility indexes for the coming tick window. Publish is called
// concurrently, one call per worker goroutine, and must not block for long:
// the worker's whole batch waits behind it.
type Registry interface {
	// Publish replaces the worker's visible unit set for this tick window.
	// The slice is owned by the scheduler and must not be retained past the
	// call; copy it if needed.
	Publish(workerID int, units []MobileUnit)
}
