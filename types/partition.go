package types

import (
	"cmp"
	"encoding/binary"
	"fmt"

	"github.com/zeebo/xxh3"
)

// Partition identifies one spatial region of a simulated world.
//
// A partition is the unit of worker assignment: every tracked partition is
// owned by exactly one worker, and the units inside it tick on that worker.
// The value is a pure key; the loaded/unloaded state of the region belongs
// to the World hosting it.
type Partition struct {
	// Instance identifies the world instance the partition belongs to.
	Instance int32 `json:"instance"`

	// X is the partition's X coordinate, in partition units.
	X int32 `json:"x"`

	// Z is the partition's Z coordinate, in partition units.
	Z int32 `json:"z"`
}

// ID returns the canonical "instance:x:z" identifier for the partition,
// suitable for log fields and metric labels.
func (p Partition) ID() string {
	return fmt.Sprintf("%d:%d:%d", p.Instance, p.X, p.Z)
}

// Hash64 returns a stable 64-bit hash of the partition key.
//
// The same partition and seed always produce the same value, across runs and
// across processes. Affinity strategies use this to derive deterministic
// worker bindings.
//
// Parameters:
//   - seed: Hash seed; different seeds produce independent distributions
//
// Returns:
//   - uint64: Hash of the packed (instance, x, z) key
func (p Partition) Hash64(seed uint64) uint64 {
	var buf [12]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(p.Instance))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(p.X))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(p.Z))

	return xxh3.HashSeed(buf[:], seed)
}

// Compare orders partitions by instance, then X, then Z.
//
// Returns:
//   - int: -1 if p < q, 0 if equal, +1 if p > q
func (p Partition) Compare(q Partition) int {
	if c := cmp.Compare(p.Instance, q.Instance); c != 0 {
		return c
	}
	if c := cmp.Compare(p.X, q.X); c != 0 {
		return c
	}

	return cmp.Compare(p.Z, q.Z)
}
