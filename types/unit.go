package types

import "time"

// MobileUnit is a simulated entity that occupies a partition and ticks with it.
//
// Implementations own their physical position: Partition reports where the
// unit currently is, and that may change at any point between scheduler
// cycles. The registration reference is scheduler-owned bookkeeping; callers
// only store and return it, the scheduler decides when it changes.
type MobileUnit interface {
	// ID returns a process-unique identifier for the unit.
	ID() string

	// Partition returns the unit's current physical partition.
	Partition() Partition

	// Tick advances the unit by one simulation step.
	//
	// Called on the owning worker's goroutine with the worker's migration
	// guard held, so at most one Tick per unit runs at a time.
	Tick(now time.Time) error

	// Registration returns the scheduler's current binding for this unit,
	// or NoEntry when the unit is not registered.
	Registration() EntryRef

	// SetRegistration stores a new scheduler binding. Implementations must
	// not interpret the value; a stale reference is detected and healed by
	// the scheduler itself.
	SetRegistration(ref EntryRef)
}
