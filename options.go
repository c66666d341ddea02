package tickshard

import (
	"sync"

	"github.com/PuoChen-SA/tickshard/types"
)

// Option configures a Scheduler with optional dependencies.
type Option func(*schedulerOptions)

// schedulerOptions holds optional Scheduler configuration.
type schedulerOptions struct {
	registry     types.Registry
	hooks        *types.Hooks
	metrics      types.MetricsCollector
	logger       types.Logger
	guardFactory GuardFactory
}

// GuardFactory produces the migration guard for one worker. The scheduler
// acquires the guard around every unit tick on that worker, so external code
// holding the same guard observes units only between ticks.
type GuardFactory func(workerID int) sync.Locker

// WithRegistry sets the visible-set registry notified at the start of each
// worker batch.
//
// Parameters:
//   - registry: Registry implementation
//
// Returns:
//   - Option: Functional option for NewScheduler
//
// Example:
//
//	sched, err := tickshard.NewScheduler(&cfg, world, affinity, tickshard.WithRegistry(reg))
func WithRegistry(registry types.Registry) Option {
	return func(o *schedulerOptions) {
		o.registry = registry
	}
}

// WithHooks sets lifecycle event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions
//
// Returns:
//   - Option: Functional option for NewScheduler
//
// Example:
//
//	hooks := &types.Hooks{
//	    OnUnitMigrated: func(ctx context.Context, unitID string, from, to types.Partition) error {
//	        return recordMigration(unitID, from, to)
//	    },
//	}
//	sched, err := tickshard.NewScheduler(&cfg, world, affinity, tickshard.WithHooks(hooks))
func WithHooks(hooks *types.Hooks) Option {
	return func(o *schedulerOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewScheduler
//
// Example:
//
//	collector := metrics.NewPrometheus(prometheus.DefaultRegisterer, "")
//	sched, err := tickshard.NewScheduler(&cfg, world, affinity, tickshard.WithMetrics(collector))
func WithMetrics(metrics types.MetricsCollector) Option {
	return func(o *schedulerOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for NewScheduler
//
// Example:
//
//	logger := zap.NewExample().Sugar()
//	sched, err := tickshard.NewScheduler(&cfg, world, affinity, tickshard.WithLogger(logger))
func WithLogger(logger types.Logger) Option {
	return func(o *schedulerOptions) {
		o.logger = logger
	}
}

// WithGuardFactory sets the factory for per-worker migration guards.
//
// The default factory hands every worker its own *sync.Mutex. Supplying a
// custom factory lets callers share a guard with engine-side readers, or
// swap in an instrumented lock.
//
// Parameters:
//   - factory: GuardFactory invoked once per worker at construction
//
// Returns:
//   - Option: Functional option for NewScheduler
//
// Example:
//
//	locks := engine.TickLocks() // one sync.Locker per worker
//	sched, err := tickshard.NewScheduler(&cfg, world, affinity,
//	    tickshard.WithGuardFactory(func(workerID int) sync.Locker {
//	        return locks[workerID]
//	    }))
func WithGuardFactory(factory GuardFactory) Option {
	return func(o *schedulerOptions) {
		o.guardFactory = factory
	}
}
