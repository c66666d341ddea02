package types

// AffinityStrategy derives a stable affinity value for a partition.
//
// The scheduler folds the value into a worker index with abs(value) mod
// workerCount, so only the value's distribution matters, not its range.
// Implementations must be pure and deterministic: the same partition must
// always yield the same value for the lifetime of a scheduler, otherwise
// ownership bindings become unstable.
type AffinityStrategy interface {
	// Affinity returns the affinity value for the partition.
	Affinity(p Partition) int64
}

// AffinityFunc adapts a plain function to an AffinityStrategy.
//
// Example:
//
//	affinity := types.AffinityFunc(func(p types.Partition) int64 {
//	    return int64(p.X) + int64(p.Z)
//	})
type AffinityFunc func(p Partition) int64

// Affinity calls f(p).
func (f AffinityFunc) Affinity(p Partition) int64 {
	return f(p)
}
