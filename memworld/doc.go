// Package memworld provides an in-memory types.World implementation.
//
// The world tracks loaded partitions and unit placement behind a single
// read-write lock and counts every tick it receives, which makes it useful
// for examples, load experiments and scheduler tests. Units are created with
// generated IDs and can be moved between partitions at any time; the
// scheduler's next rebalance sweep picks the move up.
//
// Custom worlds can be implemented by satisfying the types.World interface.
package memworld
