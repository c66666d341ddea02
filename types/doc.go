// Package types provides core type definitions and interfaces for the
// tickshard library.
//
// This package contains shared types used across multiple packages. Keeping
// them separate avoids import cycles between the root tickshard package and
// its internal implementations.
//
// Key types:
//   - Partition: Spatial partition key
//   - EntryRef: Generation-tagged reference to a scheduler entry
//   - MobileUnit: Simulated entity ticked alongside its partition
//   - World: Simulation view consumed by the scheduler
//   - AffinityStrategy: Partition-to-worker affinity
//   - Logger: Structured logging interface
//   - MetricsCollector: Metrics recording interface
package types
