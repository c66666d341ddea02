package tickshard

import "github.com/PuoChen-SA/tickshard/types"

// Re-export types from the internal types package.
//
// This file provides a stable public API for the library's core types and
// interfaces. It uses type aliases to re-export definitions from the `types`
// subpackage, which contains the actual implementations.
//
// This pattern solves the "import cycle" problem by allowing subpackages
// (strategy, memworld, internal/...) to depend on `types` without depending
// on the root `tickshard` package, while still providing a convenient
// `tickshard.Partition`, `tickshard.Logger`, etc. for users.
type (
	Partition = types.Partition
	EntryRef  = types.EntryRef
)

// Re-export interfaces from the internal types package for convenience.
type (
	AffinityStrategy = types.AffinityStrategy
	AffinityFunc     = types.AffinityFunc
	MobileUnit       = types.MobileUnit
	World            = types.World
	Registry         = types.Registry
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
	Hooks            = types.Hooks
)

// NoEntry is the zero EntryRef; it never resolves to an entry.
const NoEntry = types.NoEntry
