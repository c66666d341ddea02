package strategy

import (
	"github.com/PuoChen-SA/tickshard/types"
)

// Single binds every partition to worker 0.
type Single struct{}

var _ types.AffinityStrategy = (*Single)(nil)

// NewSingle creates a new single-worker strategy.
//
// All partitions share one worker, so ticks within the pool run in a stable
// single-threaded order. Useful for debugging and for deployments where the
// tick work is too small to amortize parallel dispatch.
//
// Returns:
//   - *Single: Initialized single-worker strategy
//
// Example:
//
//	affinity := strategy.NewSingle()
//	sched, err := tickshard.NewScheduler(&cfg, world, affinity)
func NewSingle() *Single {
	return &Single{}
}

// Affinity returns 0 for every partition.
func (s *Single) Affinity(_ /* p */ types.Partition) int64 {
	return 0
}
