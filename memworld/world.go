package memworld

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/PuoChen-SA/tickshard/types"
)

// World implements types.World with in-memory partition and unit state.
type World struct {
	mu        sync.RWMutex
	loaded    map[types.Partition]*partitionState
	units     map[string]*Unit
	placement map[types.Partition]map[string]*Unit
}

var _ types.World = (*World)(nil)

// partitionState carries per-partition bookkeeping.
type partitionState struct {
	ticks atomic.Int64
}

// NewWorld creates an empty in-memory world.
//
// Returns:
//   - *World: Initialized world with no partitions or units
//
// Example:
//
//	world := memworld.NewWorld()
//	world.Load(types.Partition{Instance: 0, X: 0, Z: 0})
//	sched, err := tickshard.NewScheduler(&cfg, world, strategy.NewSpatialHash())
func NewWorld() *World {
	return &World{
		loaded:    make(map[types.Partition]*partitionState),
		units:     make(map[string]*Unit),
		placement: make(map[types.Partition]map[string]*Unit),
	}
}

// Load marks a partition as loaded. Loading an already-loaded partition
// keeps its tick counter.
//
// Parameters:
//   - p: Partition to load
func (w *World) Load(p types.Partition) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.loaded[p]; !ok {
		w.loaded[p] = &partitionState{}
	}
}

// Unload marks a partition as unloaded. Units placed in it keep their
// physical position; they simply stop being reported as tickable until the
// partition is loaded again.
//
// Parameters:
//   - p: Partition to unload
func (w *World) Unload(p types.Partition) {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.loaded, p)
}

// Loaded reports whether the partition is currently loaded.
func (w *World) Loaded(p types.Partition) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	_, ok := w.loaded[p]

	return ok
}

// UnitsIn returns the units physically located in the partition, in no
// particular order.
func (w *World) UnitsIn(p types.Partition) []types.MobileUnit {
	w.mu.RLock()
	defer w.mu.RUnlock()

	placed := w.placement[p]
	if len(placed) == 0 {
		return nil
	}

	out := make([]types.MobileUnit, 0, len(placed))
	for _, u := range placed {
		out = append(out, u)
	}

	return out
}

// TickPartition advances the partition's tick counter.
//
// Returns:
//   - error: When the partition is not loaded, which can happen if it is
//     unloaded while a tick is in flight
func (w *World) TickPartition(p types.Partition, _ /* now */ time.Time) error {
	w.mu.RLock()
	state, ok := w.loaded[p]
	w.mu.RUnlock()

	if !ok {
		return fmt.Errorf("partition %s not loaded", p.ID())
	}
	state.ticks.Add(1)

	return nil
}

// Partitions enumerates the loaded partitions of one instance, ordered by
// instance, X, Z for deterministic bulk registration.
func (w *World) Partitions(instance int32) []types.Partition {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var out []types.Partition
	for p := range w.loaded {
		if p.Instance == instance {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, types.Partition.Compare)

	return out
}

// PartitionTicks returns how many times the partition has been ticked.
func (w *World) PartitionTicks(p types.Partition) int64 {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if state, ok := w.loaded[p]; ok {
		return state.ticks.Load()
	}

	return 0
}

// Spawn creates a unit with a generated ID placed in the partition. The
// partition does not have to be loaded; the unit then simply waits there
// until it is.
//
// Parameters:
//   - p: Partition the unit starts in
//
// Returns:
//   - *Unit: The spawned unit
func (w *World) Spawn(p types.Partition) *Unit {
	u := &Unit{
		id:        uuid.NewString(),
		world:     w,
		partition: p,
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.units[u.id] = u
	w.place(u, p)

	return u
}

// Despawn removes the unit from the world. The unit's scheduler
// registration is untouched; pair this with Scheduler.RequestRemoval.
//
// Parameters:
//   - u: Unit to remove
func (w *World) Despawn(u *Unit) {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.units, u.id)
	w.unplace(u)
}

// UnitCount returns the number of units currently in the world.
func (w *World) UnitCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return len(w.units)
}

// move relocates a unit to dest. Called by Unit.MoveTo. Moving a despawned
// unit is a no-op; Despawn already dropped it from the placement index and a
// move must not put it back.
func (w *World) move(u *Unit, dest types.Partition) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.units[u.id]; !ok {
		return
	}

	w.unplace(u)
	w.place(u, dest)
}

// place indexes u under p and updates the unit's position. Caller holds mu.
func (w *World) place(u *Unit, p types.Partition) {
	placed := w.placement[p]
	if placed == nil {
		placed = make(map[string]*Unit)
		w.placement[p] = placed
	}
	placed[u.id] = u
	u.setPartition(p)
}

// unplace drops u from its current partition index. Caller holds mu.
func (w *World) unplace(u *Unit) {
	p := u.Partition()
	if placed := w.placement[p]; placed != nil {
		delete(placed, u.id)
		if len(placed) == 0 {
			delete(w.placement, p)
		}
	}
}
