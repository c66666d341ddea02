package strategy

import (
	"encoding/binary"
	"slices"

	"github.com/zeebo/xxh3"

	"github.com/PuoChen-SA/tickshard/types"
)

// Ring implements consistent hashing with virtual nodes over a fixed worker
// count.
//
// Partitions map to the nearest clockwise virtual node on the ring, so the
// layout only shifts locally when the ring is rebuilt for a different worker
// count. The returned affinity is already a worker index in [0, workers);
// when the ring is built with the scheduler's worker count the fold maps it
// onto itself.
type Ring struct {
	// nodes contains all virtual nodes on the ring, sorted by hash
	nodes []virtualNode

	virtualNodes int
	seed         uint64
}

var _ types.AffinityStrategy = (*Ring)(nil)

// virtualNode represents a virtual node on the hash ring.
type virtualNode struct {
	hash      uint64 // Position on the ring
	workerIdx int    // Worker owning this virtual node
}

// RingOption configures a Ring strategy.
type RingOption func(*Ring)

// NewRing creates a new consistent hash ring strategy.
//
// Parameters:
//   - workers: Worker count to place on the ring, normally Config.Workers.
//     A non-positive count produces a ring that binds everything to worker 0.
//   - opts: Optional configuration (WithRingVirtualNodes, WithRingSeed)
//
// Returns:
//   - *Ring: Initialized ring strategy
//
// Example:
//
//	affinity := strategy.NewRing(cfg.Workers, strategy.WithRingVirtualNodes(300))
//	sched, err := tickshard.NewScheduler(&cfg, world, affinity)
func NewRing(workers int, opts ...RingOption) *Ring {
	r := &Ring{
		virtualNodes: 150, // default
		seed:         0,
	}

	for _, opt := range opts {
		opt(r)
	}

	r.nodes = make([]virtualNode, 0, workers*r.virtualNodes)
	for idx := 0; idx < workers; idx++ {
		r.addWorker(idx)
	}

	// Sort nodes by hash for binary search
	slices.SortFunc(r.nodes, func(a, b virtualNode) int {
		if a.hash < b.hash {
			return -1
		}
		if a.hash > b.hash {
			return 1
		}

		return 0
	})

	return r
}

// WithRingVirtualNodes sets the number of virtual nodes per worker.
//
// Higher values provide better distribution but increase memory usage.
// Recommended range: 100-300 (default: 150).
//
// Parameters:
//   - nodes: Number of virtual nodes per worker
//
// Returns:
//   - RingOption: Configuration option
func WithRingVirtualNodes(nodes int) RingOption {
	return func(r *Ring) {
		if nodes > 0 {
			r.virtualNodes = nodes
		}
	}
}

// WithRingSeed sets a custom hash seed for the ring.
//
// Parameters:
//   - seed: Hash seed value
//
// Returns:
//   - RingOption: Configuration option
func WithRingSeed(seed uint64) RingOption {
	return func(r *Ring) {
		r.seed = seed
	}
}

// Affinity returns the index of the worker owning the first virtual node at
// or after the partition's position on the ring, wrapping past the end.
func (r *Ring) Affinity(p types.Partition) int64 {
	if len(r.nodes) == 0 {
		return 0
	}

	target := p.Hash64(r.seed)
	idx, found := slices.BinarySearchFunc(r.nodes, target, func(node virtualNode, t uint64) int {
		if node.hash < t {
			return -1
		}
		if node.hash > t {
			return 1
		}

		return 0
	})
	if !found && idx >= len(r.nodes) {
		idx = 0
	}

	return int64(r.nodes[idx].workerIdx)
}

// Size returns the total number of virtual nodes on the ring.
func (r *Ring) Size() int {
	return len(r.nodes)
}

// addWorker adds virtual nodes for a worker to the ring.
func (r *Ring) addWorker(workerIdx int) {
	// Fold the worker index first, then each virtual node index using the
	// previous hash as seed, without building intermediate strings.
	var wb [8]byte
	binary.LittleEndian.PutUint64(wb[:], uint64(workerIdx)) //nolint:gosec // index is non-negative

	var base uint64
	if r.seed != 0 {
		base = xxh3.HashSeed(wb[:], r.seed)
	} else {
		base = xxh3.Hash(wb[:])
	}

	for i := range r.virtualNodes {
		var ib [8]byte
		binary.LittleEndian.PutUint64(ib[:], uint64(i)) //nolint:gosec // index is non-negative

		r.nodes = append(r.nodes, virtualNode{
			hash:      xxh3.HashSeed(ib[:], base),
			workerIdx: workerIdx,
		})
	}
}
