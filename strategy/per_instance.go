package strategy

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"

	"github.com/PuoChen-SA/tickshard/types"
)

// PerInstance derives affinity from the partition's instance only.
type PerInstance struct {
	seed uint64
}

var _ types.AffinityStrategy = (*PerInstance)(nil)

// PerInstanceOption configures a PerInstance strategy.
type PerInstanceOption func(*PerInstance)

// NewPerInstance creates a new per-instance strategy.
//
// Every partition of one instance yields the same affinity value, so whole
// instances tick on a single worker. Use it when units interact across
// partition borders within an instance and cross-worker coordination would
// cost more than the lost parallelism.
//
// Parameters:
//   - opts: Optional configuration (WithInstanceSeed)
//
// Returns:
//   - *PerInstance: Initialized per-instance strategy
//
// Example:
//
//	affinity := strategy.NewPerInstance()
//	sched, err := tickshard.NewScheduler(&cfg, world, affinity)
func NewPerInstance(opts ...PerInstanceOption) *PerInstance {
	pi := &PerInstance{seed: 0}

	for _, opt := range opts {
		opt(pi)
	}

	return pi
}

// WithInstanceSeed sets a custom hash seed.
//
// Parameters:
//   - seed: Hash seed value
//
// Returns:
//   - PerInstanceOption: Configuration option
func WithInstanceSeed(seed uint64) PerInstanceOption {
	return func(pi *PerInstance) {
		pi.seed = seed
	}
}

// Affinity returns the xxh3 hash of the partition's instance. Coordinates
// are ignored, which is what keeps an instance on one worker.
func (pi *PerInstance) Affinity(p types.Partition) int64 {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(p.Instance)) //nolint:gosec // raw bit pattern is intended

	return int64(xxh3.HashSeed(buf[:], pi.seed)) //nolint:gosec // wrap-around keeps the full 64-bit distribution
}
