package memworld

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/PuoChen-SA/tickshard/types"
)

// Unit is an in-memory mobile unit created by World.Spawn.
type Unit struct {
	id    string
	world *World

	mu        sync.RWMutex
	partition types.Partition

	reg   atomic.Uint64
	ticks atomic.Int64

	// TickFunc, when set, runs as the unit's per-tick behavior and its error
	// becomes the tick result. Set it before the unit starts ticking; it is
	// called from worker goroutines.
	TickFunc func(now time.Time) error
}

var _ types.MobileUnit = (*Unit)(nil)

// ID returns the unit's generated identifier.
func (u *Unit) ID() string {
	return u.id
}

// Partition returns the unit's current physical partition.
func (u *Unit) Partition() types.Partition {
	u.mu.RLock()
	defer u.mu.RUnlock()

	return u.partition
}

// Tick advances the unit by one step and increments its tick counter.
func (u *Unit) Tick(now time.Time) error {
	u.ticks.Add(1)
	if u.TickFunc != nil {
		return u.TickFunc(now)
	}

	return nil
}

// Registration returns the unit's current scheduler registration.
func (u *Unit) Registration() types.EntryRef {
	return types.EntryRef(u.reg.Load())
}

// SetRegistration stores the unit's scheduler registration.
func (u *Unit) SetRegistration(ref types.EntryRef) {
	u.reg.Store(uint64(ref))
}

// Ticks returns how many times the unit has been ticked.
func (u *Unit) Ticks() int64 {
	return u.ticks.Load()
}

// MoveTo relocates the unit to another partition. The scheduler notices the
// move on its next rebalance sweep and re-homes the unit there. Moving a
// despawned unit has no effect.
//
// Parameters:
//   - dest: Destination partition
func (u *Unit) MoveTo(dest types.Partition) {
	u.world.move(u, dest)
}

// setPartition records the unit's position. Called with the world lock held.
func (u *Unit) setPartition(p types.Partition) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.partition = p
}
