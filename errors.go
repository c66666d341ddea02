package tickshard

import "errors"

// Sentinel errors returned by the Scheduler.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrWorldRequired is returned when the world view is nil.
	ErrWorldRequired = errors.New("world is required")

	// ErrAffinityStrategyRequired is returned when the affinity strategy is nil.
	ErrAffinityStrategyRequired = errors.New("affinity strategy is required")

	// ErrSchedulerClosed is returned when an operation is attempted after Shutdown.
	ErrSchedulerClosed = errors.New("scheduler closed")

	// ErrWorkerClosed is returned when a batch is submitted to a terminated worker.
	ErrWorkerClosed = errors.New("worker closed")
)
