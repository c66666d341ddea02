package tickshard

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/PuoChen-SA/tickshard/memworld"
	"github.com/PuoChen-SA/tickshard/types"
)

func TestRebalance_CountsDiscoveredUnits(t *testing.T) {
	collector := newMockMetrics()
	sched, world := newTestScheduler(t, WithMetrics(collector))

	p := types.Partition{Instance: 0, X: 0, Z: 0}
	world.Load(p)
	sched.AddPartition(p)
	world.Spawn(p)

	require.NoError(t, sched.Rebalance())
	require.Equal(t, 1, collector.migrationTotal())

	// A settled unit is not migrated again.
	require.NoError(t, sched.Rebalance())
	require.Equal(t, 1, collector.migrationTotal())
}

func TestRebalance_MigratesMovedUnit(t *testing.T) {
	collector := newMockMetrics()
	sched, world := newTestScheduler(t, WithMetrics(collector))

	pa := types.Partition{Instance: 0, X: 0, Z: 0}
	pb := types.Partition{Instance: 0, X: 1, Z: 0}
	for _, p := range []types.Partition{pa, pb} {
		world.Load(p)
		sched.AddPartition(p)
	}

	unit := world.Spawn(pa)
	require.NoError(t, sched.Rebalance())

	unit.MoveTo(pb)
	require.NoError(t, sched.Rebalance())
	require.Equal(t, 2, collector.migrationTotal())

	entry := sched.arena.resolve(unit.Registration())
	require.NotNil(t, entry)
	require.Equal(t, pb, entry.partition)

	// The unit left worker 0's entry, so one tick runs it exactly once on
	// worker 1.
	dispatchAndWait(t, sched)
	require.Equal(t, int64(1), unit.Ticks())
}

func TestRebalance_MoveToUntrackedPartition(t *testing.T) {
	sched, world := newTestScheduler(t)

	tracked := types.Partition{Instance: 0, X: 0, Z: 0}
	untracked := types.Partition{Instance: 0, X: 1, Z: 0}
	world.Load(tracked)
	world.Load(untracked)
	sched.AddPartition(tracked)

	unit := world.Spawn(tracked)
	require.NoError(t, sched.Rebalance())
	ref := unit.Registration()
	require.False(t, ref.IsZero())

	// The sweep only visits units physically inside tracked partitions, so a
	// move into an untracked one is invisible to it: the stale binding stays
	// and the unit keeps ticking through its old entry.
	unit.MoveTo(untracked)
	require.NoError(t, sched.Rebalance())
	require.Equal(t, ref, unit.Registration())
	stale := sched.arena.resolve(ref)
	require.NotNil(t, stale)
	require.Contains(t, stale.units, unit.ID())

	dispatchAndWait(t, sched)
	require.Equal(t, int64(1), unit.Ticks())

	// Tracking the destination re-homes the unit on the next sweep.
	sched.AddPartition(untracked)
	require.NoError(t, sched.Rebalance())
	require.NotEqual(t, ref, unit.Registration())
	moved := sched.arena.resolve(unit.Registration())
	require.NotNil(t, moved)
	require.Equal(t, untracked, moved.partition)
	require.NotContains(t, stale.units, unit.ID())

	dispatchAndWait(t, sched)
	require.Equal(t, int64(2), unit.Ticks())
}

func TestRebalance_DrainsRequestedRemovals(t *testing.T) {
	collector := newMockMetrics()
	sched, world := newTestScheduler(t, WithMetrics(collector))

	p := types.Partition{Instance: 0, X: 0, Z: 0}
	world.Load(p)
	sched.AddPartition(p)

	unit := world.Spawn(p)
	require.NoError(t, sched.Rebalance())
	require.False(t, unit.Registration().IsZero())

	sched.RequestRemoval(unit)

	// The unit keeps ticking until the next sweep drains the request.
	dispatchAndWait(t, sched)
	require.Equal(t, int64(1), unit.Ticks())

	world.Despawn(unit)
	require.NoError(t, sched.Rebalance())
	require.Equal(t, 1, collector.drainedTotal())
	require.True(t, unit.Registration().IsZero())

	dispatchAndWait(t, sched)
	require.Equal(t, int64(1), unit.Ticks())

	// Draining is exactly-once; the next sweep sees an empty set.
	require.NoError(t, sched.Rebalance())
	require.Equal(t, 1, collector.drainedTotal())
}

func TestRebalance_DrainsUnregisteredUnit(t *testing.T) {
	collector := newMockMetrics()
	sched, world := newTestScheduler(t, WithMetrics(collector))

	// The unit was never swept into an entry; draining it is still safe.
	unit := world.Spawn(types.Partition{Instance: 0, X: 0, Z: 0})
	sched.RequestRemoval(unit)

	require.NoError(t, sched.Rebalance())
	require.Equal(t, 1, collector.drainedTotal())
	require.True(t, unit.Registration().IsZero())
}

func TestRequestRemoval_ManyGoroutines(t *testing.T) {
	collector := newMockMetrics()
	sched, world := newTestScheduler(t, WithMetrics(collector))

	p := types.Partition{Instance: 0, X: 0, Z: 0}
	world.Load(p)
	sched.AddPartition(p)

	const count = 32
	spawned := make([]*memworld.Unit, count)
	for i := range spawned {
		spawned[i] = world.Spawn(p)
	}
	require.NoError(t, sched.Rebalance())

	var wg sync.WaitGroup
	for _, u := range spawned {
		wg.Add(1)
		go func() {
			defer wg.Done()
			world.Despawn(u)
			sched.RequestRemoval(u)
		}()
	}
	wg.Wait()

	require.NoError(t, sched.Rebalance())
	require.Equal(t, count, collector.drainedTotal())
	for _, u := range spawned {
		require.True(t, u.Registration().IsZero())
	}
}

func TestRequestRemoval_SameUnitTwice(t *testing.T) {
	collector := newMockMetrics()
	sched, world := newTestScheduler(t, WithMetrics(collector))

	p := types.Partition{Instance: 0, X: 0, Z: 0}
	world.Load(p)
	sched.AddPartition(p)
	unit := world.Spawn(p)
	require.NoError(t, sched.Rebalance())

	world.Despawn(unit)

	// Duplicate requests for one unit collapse into a single removal.
	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sched.RequestRemoval(unit)
		}()
	}
	wg.Wait()

	require.NoError(t, sched.Rebalance())
	require.Equal(t, 1, collector.drainedTotal())
	require.True(t, unit.Registration().IsZero())
}

func TestRequestRemoval_RacingSweeps(t *testing.T) {
	collector := newMockMetrics()
	sched, world := newTestScheduler(t, WithMetrics(collector))

	p := types.Partition{Instance: 0, X: 0, Z: 0}
	world.Load(p)
	sched.AddPartition(p)

	const count = 64
	spawned := make([]*memworld.Unit, count)
	for i := range spawned {
		spawned[i] = world.Spawn(p)
	}
	require.NoError(t, sched.Rebalance())

	// Hammer removal requests while sweeps swap the pending set out from
	// under them. The store-and-recheck loop guarantees no request is lost
	// between two drain cycles.
	var wg sync.WaitGroup
	for _, u := range spawned {
		wg.Add(1)
		go func() {
			defer wg.Done()
			world.Despawn(u)
			sched.RequestRemoval(u)
		}()
	}
	for range 16 {
		require.NoError(t, sched.Rebalance())
	}
	wg.Wait()
	require.NoError(t, sched.Rebalance())

	// A request caught mid-swap may be drained twice; it must never be
	// drained zero times.
	require.GreaterOrEqual(t, collector.drainedTotal(), count)
	for _, u := range spawned {
		require.True(t, u.Registration().IsZero())
	}

	dispatchAndWait(t, sched)
	for _, u := range spawned {
		require.Zero(t, u.Ticks())
	}
}

func TestRebalance_UnloadedPartitionEndsSweepEarly(t *testing.T) {
	sched, world := newTestScheduler(t)

	pa := types.Partition{Instance: 0, X: 0, Z: 0}
	pb := types.Partition{Instance: 0, X: 1, Z: 0}
	pc := types.Partition{Instance: 0, X: 2, Z: 0}
	for _, p := range []types.Partition{pa, pb, pc} {
		world.Load(p)
		sched.AddPartition(p)
	}
	unit := world.Spawn(pc)

	world.Unload(pb)

	// The sweep processes pa, then finds pb unloaded: pb is unregistered and
	// the sweep ends there, so pc was never visited this cycle.
	require.NoError(t, sched.Rebalance())
	require.Len(t, sched.entries, 2)
	require.NotContains(t, sched.entries, pb)
	require.True(t, unit.Registration().IsZero())

	// pc kept its place at the front of the rotation for the next cycle.
	require.Equal(t, []types.Partition{pc, pa}, sched.rotation)

	require.NoError(t, sched.Rebalance())
	require.False(t, unit.Registration().IsZero())
}

func TestAddPartition_DoubleAdd(t *testing.T) {
	sched, world := newTestScheduler(t)

	p := types.Partition{Instance: 0, X: 0, Z: 0}
	world.Load(p)
	sched.AddPartition(p)
	unit := world.Spawn(p)
	require.NoError(t, sched.Rebalance())

	// Re-adding allocates a second entry but the worker set keeps the first,
	// so the unit keeps ticking through the original entry. The partition map
	// still resolves to exactly one entry for p.
	sched.AddPartition(p)
	require.Equal(t, 2, sched.arena.live())
	require.Len(t, sched.entries, 1)

	dispatchAndWait(t, sched)
	require.Equal(t, int64(1), unit.Ticks())

	// The unit's registration still matches its partition, so sweeps leave
	// it alone.
	require.NoError(t, sched.Rebalance())
	dispatchAndWait(t, sched)
	require.Equal(t, int64(2), unit.Ticks())

	// A single removal tears down both entries.
	sched.RemovePartition(p)
	require.Zero(t, sched.arena.live())
	require.Empty(t, sched.entries)

	dispatchAndWait(t, sched)
	require.Equal(t, int64(2), unit.Ticks())
}

func TestRemovePartition_StalesRegistrations(t *testing.T) {
	sched, world := newTestScheduler(t)

	p := types.Partition{Instance: 0, X: 0, Z: 0}
	world.Load(p)
	sched.AddPartition(p)
	unit := world.Spawn(p)
	require.NoError(t, sched.Rebalance())
	ref := unit.Registration()

	sched.RemovePartition(p)

	// The registration survives as a value but no longer resolves.
	require.Equal(t, ref, unit.Registration())
	require.Nil(t, sched.arena.resolve(unit.Registration()))

	// Re-adding the partition hands out a fresh entry; the stale unit is
	// re-homed by the next sweep.
	sched.AddPartition(p)
	require.NoError(t, sched.Rebalance())
	require.NotEqual(t, ref, unit.Registration())
	require.NotNil(t, sched.arena.resolve(unit.Registration()))

	dispatchAndWait(t, sched)
	require.Equal(t, int64(1), unit.Ticks())
}

func TestScheduler_AddRemoveInstance(t *testing.T) {
	sched, world := newTestScheduler(t)

	gameInstance := int32(7)
	otherInstance := int32(8)
	var gamePartitions []types.Partition
	for x := int32(0); x < 3; x++ {
		p := types.Partition{Instance: gameInstance, X: x, Z: x}
		world.Load(p)
		gamePartitions = append(gamePartitions, p)
	}
	other := types.Partition{Instance: otherInstance, X: 0, Z: 0}
	world.Load(other)
	sched.AddPartition(other)

	sched.AddInstance(gameInstance)
	require.Len(t, sched.entries, 4)
	for _, p := range gamePartitions {
		require.Contains(t, sched.entries, p)
	}

	sched.RemoveInstance(gameInstance)
	require.Len(t, sched.entries, 1)
	require.Contains(t, sched.entries, other)
}
