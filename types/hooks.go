package types

import "context"

// Hooks defines optional callbacks for Scheduler lifecycle events.
//
// All hooks are called asynchronously in background goroutines so they never
// block dispatch or rebalance paths. Hooks receive the scheduler's lifecycle
// context, which is cancelled during shutdown. Hook errors are logged and
// otherwise ignored.
//
// Best practices for hook implementation:
//   - Complete quickly and respect context cancellation
//   - Don't block on long I/O operations
//   - Make hooks idempotent; a hook may still be in flight when Shutdown
//     returns
type Hooks struct {
	// OnPartitionAdded is called after a partition is registered and bound
	// to a worker.
	OnPartitionAdded func(ctx context.Context, p Partition, workerID int) error

	// OnPartitionRemoved is called after a partition's entry is torn down,
	// whether by an explicit removal or by a rebalance sweep discovering
	// the partition unloaded.
	OnPartitionRemoved func(ctx context.Context, p Partition) error

	// OnUnitMigrated is called when a rebalance sweep moves a unit from one
	// partition entry to another.
	OnUnitMigrated func(ctx context.Context, unitID string, from, to Partition) error

	// OnTickError is called when a partition or unit tick fails. unitID is
	// empty for partition-level failures.
	OnTickError func(ctx context.Context, p Partition, unitID string, err error) error
}
