package types

import "time"

// World provides the scheduler's view of the simulation it ticks.
//
// Implementations must be safe for concurrent use: Loaded, UnitsIn and
// TickPartition are called both from rebalance sweeps and from worker
// goroutines during dispatch.
type World interface {
	// Loaded reports whether the partition is currently loaded. Unloaded
	// partitions are skipped during dispatch and dropped by the next
	// rebalance sweep that visits them.
	Loaded(p Partition) bool

	// UnitsIn returns the units physically located in the partition.
	UnitsIn(p Partition) []MobileUnit

	// TickPartition advances the partition's own simulation (terrain,
	// block updates and similar) by one step.
	TickPartition(p Partition, now time.Time) error

	// Partitions enumerates the partitions currently known for one
	// instance. Used for bulk registration and removal.
	Partitions(instance int32) []Partition
}
