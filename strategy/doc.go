// Package strategy provides built-in affinity strategy implementations.
//
// Affinity strategies determine which worker a partition is bound to: the
// scheduler folds the returned value into its worker range. The package
// includes four built-in strategies:
//
//   - SpatialHash: xxh3 over the full partition key (recommended default)
//   - Ring: consistent hashing with virtual nodes over a fixed worker count
//   - PerInstance: xxh3 over the instance only, keeping whole instances together
//   - Single: constant affinity, serializing all partitions onto worker 0
//
// # Strategy Selection Guide
//
// SpatialHash:
//   - Use for evenly spread spatial workloads
//   - Neighbouring partitions land on unrelated workers, smoothing hot areas
//   - Configuration: hash seed
//
// Ring:
//   - Use when the distribution should stay stable across deployments that
//     tune the worker count
//   - Virtual nodes trade memory for distribution quality
//   - Configuration: virtual nodes, hash seed
//
// PerInstance:
//   - Use when cross-partition access within an instance dominates
//   - All partitions of one instance tick on the same worker, so
//     instance-local state needs no cross-worker coordination
//   - Configuration: hash seed
//
// Single:
//   - Use for single-threaded debugging or fully deterministic tick order
//   - No parallelism: every partition binds to worker 0
//
// Custom strategies can be implemented by satisfying the
// types.AffinityStrategy interface or wrapping a function in
// types.AffinityFunc.
package strategy
