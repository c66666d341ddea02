// Package tickshard provides a Go library for sharding a spatial simulation
// tick across a fixed pool of workers.
//
// Tickshard binds world partitions to workers through a pluggable affinity
// strategy, dispatches one parallel tick batch per worker, and keeps mobile
// units homed to the partition they physically occupy via a periodic
// rebalance sweep. A per-worker migration guard lets engine code safely
// reach into units owned by another worker between their ticks.
//
// # Quick Start
//
// Basic usage with default settings:
//
//	import (
//	    "github.com/PuoChen-SA/tickshard"
//	    "github.com/PuoChen-SA/tickshard/memworld"
//	    "github.com/PuoChen-SA/tickshard/strategy"
//	)
//
//	cfg := tickshard.DefaultConfig()
//	world := memworld.NewWorld()
//
//	sched, err := tickshard.NewScheduler(&cfg, world, strategy.NewSpatialHash())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sched.Shutdown(context.Background())
//
//	sched.AddPartition(tickshard.Partition{Instance: 0, X: 0, Z: 0})
//
//	for tick := 0; tick < 100; tick++ {
//	    barrier, err := sched.Dispatch(time.Now())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    barrier.Wait()
//	    _ = sched.Rebalance()
//	}
//
// # Key Features
//
//   - Fixed Worker Pool: Partition affinity folds into [0, Workers) so
//     ownership never flaps between ticks
//   - Parallel Dispatch: One batch per worker per tick, completion signaled
//     through a countdown Barrier
//   - Drift Correction: The rebalance sweep re-homes units whose physical
//     partition moved, one full rotation per sweep
//   - Deferred Removal: RequestRemoval is lock-free and safe from inside a
//     unit's own tick
//   - Migration Guards: Per-worker locks scope external access to unit state
//     to the gaps between that worker's unit ticks
//
// # Architecture
//
// A tick cycle alternates two phases driven by the caller:
//
//	Dispatch → Barrier.Wait → Rebalance → (repeat)
//
// Dispatch snapshots each worker's bound partitions under the scheduler lock
// and hands them to the worker goroutines; the lock is released before any
// tick work runs. Rebalance drains pending unit removals, then rotates
// through the known partitions fixing unit registrations.
//
// # Advanced Usage
//
// Custom strategy with options:
//
//	import (
//	    "github.com/PuoChen-SA/tickshard"
//	    "github.com/PuoChen-SA/tickshard/strategy"
//	)
//
//	affinity := strategy.NewRing(cfg.Workers,
//	    strategy.WithRingVirtualNodes(300),
//	)
//
//	hooks := &tickshard.Hooks{
//	    OnUnitMigrated: func(ctx context.Context, unitID string, from, to tickshard.Partition) error {
//	        // Handle unit hand-offs
//	        return nil
//	    },
//	}
//
//	sched, err := tickshard.NewScheduler(&cfg, world, affinity,
//	    tickshard.WithHooks(hooks),
//	)
//
// See the examples/ directory for complete working examples.
package tickshard
