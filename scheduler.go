package tickshard

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/PuoChen-SA/tickshard/internal/logging"
	"github.com/PuoChen-SA/tickshard/internal/metrics"
	"github.com/PuoChen-SA/tickshard/tracing"
	"github.com/PuoChen-SA/tickshard/types"
)

// Scheduler assigns partitions and their units to a fixed pool of tick
// workers and drives the per-tick parallel dispatch.
//
// Scheduler is the main entry point of the tickshard library. It handles:
//   - Partition registration and worker binding via an affinity strategy
//   - Parallel tick dispatch with a per-tick completion barrier
//   - Periodic rebalance sweeps that re-home units whose physical partition
//     moved and drain pending unit removals
//   - Per-worker migration guards for engine-side readers
//
// Thread Safety:
//   - All public methods are safe for concurrent use, with one documented
//     exception: Rebalance must not run while a dispatched tick is still in
//     flight. Callers wait on the Barrier from Dispatch first.
//   - RequestRemoval never takes the scheduler lock and is safe from any
//     goroutine, including unit ticks.
//
// Lifecycle:
//   - Create with NewScheduler(); workers start immediately
//   - Register partitions with AddPartition or AddInstance
//   - Drive ticks with Dispatch, then Rebalance between ticks
//   - Call Shutdown for graceful termination
//
// Testing:
// Consumers can define minimal interfaces for mocking:
//
//	type TickDriver interface {
//	    Dispatch(now time.Time) (*tickshard.Barrier, error)
//	    Rebalance() error
//	}
type Scheduler struct {
	cfg      Config
	world    types.World
	affinity types.AffinityStrategy

	// Optional dependencies
	registry types.Registry
	hooks    *types.Hooks
	metrics  types.MetricsCollector
	logger   types.Logger

	// Structural state, guarded by mu. workers is immutable after
	// construction; sets holds each worker's partition->entry bindings and
	// is created lazily per worker. entries is the authoritative
	// partition->entry map and rotation the FIFO sweep order.
	mu       sync.Mutex
	workers  []*Worker
	sets     []map[types.Partition]types.EntryRef
	entries  map[types.Partition]types.EntryRef
	rotation []types.Partition
	arena    entryArena
	closed   bool

	// Pending unit removals. Populated lock-free by RequestRemoval and
	// swapped out wholesale at the start of each rebalance sweep.
	removals atomic.Pointer[xsync.Map[string, types.MobileUnit]]

	// Lifecycle management
	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler creates a new Scheduler with the provided configuration.
//
// The worker pool starts immediately; the scheduler is ready for
// AddPartition and Dispatch as soon as the constructor returns.
//
// Returns a concrete *Scheduler struct following the "accept interfaces,
// return structs" principle. Consumers can define their own interfaces for
// testing if needed.
//
// Parameters:
//   - cfg: Runtime configuration (worker count, queue size, timeouts)
//   - world: World view used to enumerate partitions and units
//   - affinity: Strategy deriving the affinity value per partition
//     (recommended: strategy.NewSpatialHash())
//   - opts: Optional configuration (registry, hooks, metrics, logger, guards)
//
// Returns:
//   - *Scheduler: Initialized scheduler with running workers
//   - error: Validation error if configuration or dependencies are invalid
//
// Example:
//
//	cfg := tickshard.DefaultConfig()
//	sched, err := tickshard.NewScheduler(&cfg, world, strategy.NewSpatialHash())
func NewScheduler(cfg *Config, world types.World, affinity types.AffinityStrategy, opts ...Option) (*Scheduler, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if world == nil {
		return nil, ErrWorldRequired
	}
	if affinity == nil {
		return nil, ErrAffinityStrategyRequired
	}

	// Fill in missing configuration values with defaults
	SetDefaults(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Apply options
	options := &schedulerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Provide safe defaults for optional dependencies to avoid nil checks everywhere
	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logging.NewNop()
	}

	hooksInstance := options.hooks
	if hooksInstance == nil {
		hooksInstance = &types.Hooks{}
	}

	registryInstance := options.registry
	if registryInstance == nil {
		registryInstance = nopRegistry{}
	}

	guardFactory := options.guardFactory
	if guardFactory == nil {
		guardFactory = func(_ /* workerID */ int) sync.Locker {
			return &sync.Mutex{}
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Scheduler{
		cfg:      *cfg,
		world:    world,
		affinity: affinity,
		registry: registryInstance,
		hooks:    hooksInstance,
		metrics:  metricsCollector,
		logger:   loggerInstance,
		workers:  make([]*Worker, cfg.Workers),
		sets:     make([]map[types.Partition]types.EntryRef, cfg.Workers),
		entries:  make(map[types.Partition]types.EntryRef),
		ctx:      ctx,
		cancel:   cancel,
	}
	s.removals.Store(xsync.NewMap[string, types.MobileUnit]())

	for i := range s.workers {
		s.workers[i] = newWorker(i, cfg.QueueSize, guardFactory(i), loggerInstance)
	}

	s.logger.Info("scheduler started", "workers", cfg.Workers, "queue_size", cfg.QueueSize)

	return s, nil
}

// AddPartition registers a partition and binds it to its affinity worker.
//
// Safe to call for an already-registered partition, but note the inherited
// semantics: the binding is overwritten without migrating anything, and the
// worker keeps ticking the previous entry until the partition is removed.
// Callers that reload a live partition should RemovePartition first.
//
// Parameters:
//   - p: Partition to register
func (s *Scheduler) AddPartition(p types.Partition) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.addLocked(p)
}

// RemovePartition unregisters a partition, freeing its entry. Registrations
// of units that lived in the entry go stale and resolve to nothing until a
// later sweep re-homes them. Idempotent.
//
// Parameters:
//   - p: Partition to unregister
func (s *Scheduler) RemovePartition(p types.Partition) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.removeLocked(p)
}

// AddInstance registers every partition the world currently reports for the
// instance. Typically called when an instance is created with its initial
// partitions already loaded.
//
// Parameters:
//   - instance: Instance identifier
func (s *Scheduler) AddInstance(instance int32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	for _, p := range s.world.Partitions(instance) {
		s.addLocked(p)
	}
}

// RemoveInstance unregisters every tracked partition belonging to the
// instance. Driven by the scheduler's own bookkeeping rather than the world
// view, so it also cleans up after a world that already dropped the instance.
//
// Parameters:
//   - instance: Instance identifier
func (s *Scheduler) RemoveInstance(instance int32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	// Collect first; removeLocked mutates the map being ranged.
	var doomed []types.Partition
	for p := range s.entries {
		if p.Instance == instance {
			doomed = append(doomed, p)
		}
	}
	for _, p := range doomed {
		s.removeLocked(p)
	}
}

// Dispatch submits one tick batch per worker and returns immediately.
//
// Each worker ticks its bound partitions and their units on its own
// goroutine; the returned Barrier opens once every worker has finished.
// Workers without bound partitions signal the barrier without being
// scheduled. Unit tick errors and panics are logged and counted but never
// fail the tick.
//
// Parameters:
//   - now: Tick timestamp passed through to partition and unit ticks
//
// Returns:
//   - *Barrier: Completion barrier for this tick
//   - error: ErrSchedulerClosed if Shutdown has been called
//
// Example:
//
//	barrier, err := sched.Dispatch(time.Now())
//	if err != nil {
//	    return err
//	}
//	barrier.Wait()
func (s *Scheduler) Dispatch(now time.Time) (*Barrier, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()

		return nil, ErrSchedulerClosed
	}

	_, span := tracing.StartSpan(s.ctx, "scheduler.dispatch", "INTERNAL")

	barrier := newBarrier(int32(len(s.workers))) //nolint:gosec // worker count is bounded by config validation

	for i, w := range s.workers {
		set := s.sets[i]
		if len(set) == 0 {
			// Idle fast path: nothing bound to this worker.
			barrier.signal()
			continue
		}

		batch := make([]*partitionEntry, 0, len(set))
		for _, ref := range set {
			if entry := s.arena.resolve(ref); entry != nil {
				batch = append(batch, entry)
			}
		}
		if len(batch) == 0 {
			barrier.signal()
			continue
		}

		worker := w
		err := worker.Submit(func() {
			s.runBatch(worker, batch, now, barrier)
		})
		if err != nil {
			// Shutdown raced the dispatch. The batch is dropped but the
			// barrier still opens, so waiters never hang.
			s.logger.Warn("batch submit failed", "worker_id", worker.ID(), "error", err)
			barrier.signal()
			continue
		}
		s.metrics.RecordWorkerQueueDepth(worker.ID(), worker.queueDepth())
	}
	s.mu.Unlock()

	tracing.EndSpan(span, nil)

	return barrier, nil
}

// Rebalance runs one maintenance sweep: drains pending unit removals, then
// walks the partition rotation re-homing units whose physical partition no
// longer matches their registration.
//
// A partition found unloaded mid-sweep is unregistered and ends the sweep
// early; the partitions still queued this cycle keep their position for the
// next one. Must not run concurrently with an in-flight tick; wait on the
// Dispatch barrier first.
//
// Returns:
//   - error: ErrSchedulerClosed if Shutdown has been called
func (s *Scheduler) Rebalance() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSchedulerClosed
	}

	_, span := tracing.StartSpan(s.ctx, "scheduler.rebalance", "INTERNAL")
	start := time.Now()

	drained := s.drainRemovalsLocked()
	migrated := s.refreshRotationLocked()

	span.WithAttributes(map[string]string{
		"partitions": strconv.Itoa(len(s.entries)),
		"migrated":   strconv.Itoa(migrated),
		"drained":    strconv.Itoa(drained),
	})
	tracing.EndSpan(span, nil)

	s.metrics.RecordRebalanceDuration(time.Since(start).Seconds())
	s.metrics.RecordUnitMigrations(migrated)
	s.metrics.RecordRemovalsDrained(drained)

	if migrated > 0 || drained > 0 {
		s.logger.Debug("rebalance sweep completed", "migrated", migrated, "drained", drained)
	}

	return nil
}

// RequestRemoval schedules a unit for removal on the next rebalance sweep.
//
// Safe to call from any goroutine, including from the unit's own Tick; the
// scheduler lock is never taken. The unit keeps ticking until the sweep
// drains it.
//
// Parameters:
//   - u: Unit to remove
func (s *Scheduler) RequestRemoval(u types.MobileUnit) {
	for {
		set := s.removals.Load()
		set.Store(u.ID(), u)
		if s.removals.Load() == set {
			return
		}
		// A sweep swapped the set mid-store; retry against the fresh set so
		// the request cannot fall between two drain cycles.
	}
}

// Shutdown terminates the worker pool and waits for in-flight batches.
//
// After Shutdown returns, Dispatch and Rebalance fail with
// ErrSchedulerClosed and registration calls become no-ops. If
// Config.ShutdownTimeout is positive it bounds the wait in addition to the
// caller's context.
//
// Parameters:
//   - ctx: Context for cancellation and deadline
//
// Returns:
//   - error: ErrSchedulerClosed on repeated calls, or the join failure when
//     workers did not finish in time
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()

		return ErrSchedulerClosed
	}
	s.closed = true
	workers := s.workers
	s.mu.Unlock()

	if s.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
	}

	for _, w := range workers {
		w.stop()
	}

	var shutdownErr error
	for _, w := range workers {
		if err := w.join(ctx); err != nil {
			s.logger.Error("worker join failed", "worker_id", w.ID(), "error", err)
			if shutdownErr == nil {
				shutdownErr = fmt.Errorf("worker %d join failed: %w", w.ID(), err)
			}
		}
	}

	s.cancel()

	if shutdownErr == nil {
		s.logger.Info("scheduler stopped gracefully")
	}

	return shutdownErr
}

// Workers returns a snapshot of the worker pool, ordered by worker ID.
//
// Returns:
//   - []*Worker: Copy of the pool; safe for the caller to retain
func (s *Scheduler) Workers() []*Worker {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Worker, len(s.workers))
	copy(out, s.workers)

	return out
}

// workerIndex folds a partition's affinity value into [0, workers).
func (s *Scheduler) workerIndex(p types.Partition) int {
	v := s.affinity.Affinity(p)
	// Negate in uint64 space: |math.MinInt64| overflows int64.
	u := uint64(v) //nolint:gosec // two's complement wrap is the point here
	if v < 0 {
		u = -u
	}

	return int(u % uint64(len(s.workers)))
}

// addLocked registers p under the scheduler lock.
//
// The worker set keeps an existing equal-keyed entry (the re-added partition
// keeps being ticked through the old entry), while the partition map always
// points at the newest one. Inherited double-add semantics; see AddPartition.
func (s *Scheduler) addLocked(p types.Partition) {
	workerID := s.workerIndex(p)
	ref := s.arena.alloc(newPartitionEntry(p, workerID))

	set := s.sets[workerID]
	if set == nil {
		set = make(map[types.Partition]types.EntryRef)
		s.sets[workerID] = set
	}
	if _, ok := set[p]; !ok {
		set[p] = ref
	}
	s.entries[p] = ref
	s.rotation = append(s.rotation, p)

	s.metrics.RecordPartitionCount(len(s.entries))
	s.logger.Debug("partition added", "partition", p.ID(), "worker_id", workerID)

	if s.hooks.OnPartitionAdded != nil {
		go func() {
			if err := s.hooks.OnPartitionAdded(s.ctx, p, workerID); err != nil {
				s.logger.Error("partition added hook error", "partition", p.ID(), "error", err)
			}
		}()
	}
}

// removeLocked unregisters p under the scheduler lock. Idempotent.
func (s *Scheduler) removeLocked(p types.Partition) {
	ref, tracked := s.entries[p]
	if tracked {
		if entry := s.arena.resolve(ref); entry != nil {
			set := s.sets[entry.workerID]
			if set != nil {
				// The set may hold an older equal-keyed ref after a
				// double add; release it along with the current one.
				if oldRef, ok := set[p]; ok {
					if oldRef != ref {
						s.arena.release(oldRef)
					}
					delete(set, p)
				}
			}
		}
		delete(s.entries, p)
		s.arena.release(ref)
	}
	s.rotation = removeFirst(s.rotation, p)

	if !tracked {
		return
	}

	s.metrics.RecordPartitionCount(len(s.entries))
	s.logger.Debug("partition removed", "partition", p.ID())

	if s.hooks.OnPartitionRemoved != nil {
		go func() {
			if err := s.hooks.OnPartitionRemoved(s.ctx, p); err != nil {
				s.logger.Error("partition removed hook error", "partition", p.ID(), "error", err)
			}
		}()
	}
}

// drainRemovalsLocked swaps out the pending-removal set and detaches every
// drained unit from its entry. Returns the number of drained requests.
func (s *Scheduler) drainRemovalsLocked() int {
	pending := s.removals.Swap(xsync.NewMap[string, types.MobileUnit]())
	if pending.Size() == 0 {
		return 0
	}

	drained := 0
	pending.Range(func(id string, u types.MobileUnit) bool {
		drained++
		if entry := s.arena.resolve(u.Registration()); entry != nil {
			delete(entry.units, id)
		}
		u.SetRegistration(types.NoEntry)

		return true
	})

	return drained
}

// refreshRotationLocked walks one full rotation of the partition sequence,
// re-homing units whose physical partition differs from their registration.
// Returns the number of units whose binding changed.
func (s *Scheduler) refreshRotationLocked() int {
	migrated := 0
	count := len(s.rotation)
	for i := 0; i < count; i++ {
		if len(s.rotation) == 0 {
			break
		}
		p := s.rotation[0]
		s.rotation = s.rotation[1:]

		if !s.world.Loaded(p) {
			// An unloaded partition ends the sweep early; the rest of this
			// cycle's budget is abandoned, not redistributed.
			s.removeLocked(p)

			return migrated
		}

		for _, u := range s.world.UnitsIn(p) {
			current := s.arena.resolve(u.Registration())
			if current != nil && current.partition == p {
				continue
			}
			migrated += s.migrateLocked(u, current, p)
		}

		s.rotation = append(s.rotation, p)
	}

	return migrated
}

// migrateLocked moves u from its current entry (may be nil) to the entry
// tracking dest. The sweep only hands in partitions it tracks; a dest with
// no live entry is the ghost rotation copy left by removing a double-added
// partition, and its units are detached rather than re-homed. Returns 1
// when the unit's binding changed.
func (s *Scheduler) migrateLocked(u types.MobileUnit, from *partitionEntry, dest types.Partition) int {
	changed := false
	fromPartition := types.Partition{}
	if from != nil {
		fromPartition = from.partition
		delete(from.units, u.ID())
		changed = true
	}

	if ref, ok := s.entries[dest]; ok {
		if entry := s.arena.resolve(ref); entry != nil {
			entry.units[u.ID()] = u
			u.SetRegistration(ref)
			changed = true
		} else {
			u.SetRegistration(types.NoEntry)
		}
	} else {
		u.SetRegistration(types.NoEntry)
	}

	if !changed {
		return 0
	}

	s.logger.Debug("unit migrated",
		"unit_id", u.ID(),
		"from", fromPartition.ID(),
		"to", dest.ID(),
	)

	if s.hooks.OnUnitMigrated != nil {
		go func() {
			if err := s.hooks.OnUnitMigrated(s.ctx, u.ID(), fromPartition, dest); err != nil {
				s.logger.Error("unit migrated hook error", "unit_id", u.ID(), "error", err)
			}
		}()
	}

	return 1
}

// runBatch executes one worker's tick batch and signals the barrier when
// done, whether the batch succeeded, errored, or panicked.
func (s *Scheduler) runBatch(w *Worker, batch []*partitionEntry, now time.Time, barrier *Barrier) {
	defer barrier.signal()
	start := time.Now()

	// Publish the visible set before any tick work so engine-side readers
	// observe this window's membership.
	var units []types.MobileUnit
	for _, entry := range batch {
		for _, u := range entry.units {
			units = append(units, u)
		}
	}
	s.registry.Publish(w.ID(), units)

	for _, entry := range batch {
		p := entry.partition
		if !s.world.Loaded(p) {
			continue
		}
		if err := s.world.TickPartition(p, now); err != nil {
			s.reportTickError(p, "", "partition", err)
		}
		for _, u := range entry.units {
			s.tickUnit(w, p, u, now)
		}
	}

	s.metrics.RecordBatchDuration(w.ID(), time.Since(start).Seconds())
}

// tickUnit runs a single unit tick under the worker's migration guard. The
// guard is held for exactly one tick, never across the batch.
func (s *Scheduler) tickUnit(w *Worker, p types.Partition, u types.MobileUnit, now time.Time) {
	guard := w.Guard()
	guard.Lock()
	defer guard.Unlock()
	defer func() {
		if r := recover(); r != nil {
			s.reportTickError(p, u.ID(), "panic", fmt.Errorf("unit tick panicked: %v", r))
		}
	}()

	if err := u.Tick(now); err != nil {
		s.reportTickError(p, u.ID(), "unit", err)
	}
}

// reportTickError logs, counts, and forwards one tick failure.
func (s *Scheduler) reportTickError(p types.Partition, unitID, kind string, err error) {
	s.logger.Error("tick failed",
		"partition", p.ID(),
		"unit_id", unitID,
		"kind", kind,
		"error", err,
	)
	s.metrics.IncrementTickError(kind)

	if s.hooks.OnTickError != nil {
		go func() {
			if hookErr := s.hooks.OnTickError(s.ctx, p, unitID, err); hookErr != nil {
				s.logger.Error("tick error hook error", "partition", p.ID(), "error", hookErr)
			}
		}()
	}
}

// removeFirst deletes the first occurrence of p from seq, preserving order.
func removeFirst(seq []types.Partition, p types.Partition) []types.Partition {
	for i, q := range seq {
		if q == p {
			return append(seq[:i], seq[i+1:]...)
		}
	}

	return seq
}

// nopRegistry discards visible-set publications.
type nopRegistry struct{}

func (nopRegistry) Publish(_ /* workerID */ int, _ /* units */ []types.MobileUnit) {
	// No-op
}
