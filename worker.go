package tickshard

import (
	"context"
	"sync"

	"github.com/PuoChen-SA/tickshard/types"
)

// Worker is one member of the scheduler's fixed tick pool.
//
// Each worker runs a dedicated goroutine that executes submitted batches in
// order, and carries the migration guard acquired around every unit tick it
// performs. Workers are created by NewScheduler and terminated by Shutdown;
// they cannot be restarted.
type Worker struct {
	id     int
	guard  sync.Locker
	logger types.Logger

	// Lifecycle channels. tasks is never closed; quit stops the run loop
	// and done reports that the loop has fully drained and exited.
	tasks chan func()
	quit  chan struct{}
	done  chan struct{}

	stopOnce sync.Once
}

// newWorker starts the worker goroutine. queueSize must be >= 1.
func newWorker(id, queueSize int, guard sync.Locker, logger types.Logger) *Worker {
	w := &Worker{
		id:     id,
		guard:  guard,
		logger: logger,
		tasks:  make(chan func(), queueSize),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	go w.run()

	return w
}

// ID returns the worker's pool index, in [0, Config.Workers).
func (w *Worker) ID() int {
	return w.id
}

// Guard returns the worker's migration guard.
//
// The scheduler holds the guard for the duration of a single unit tick, never
// across a whole batch. External code that locks the guard therefore observes
// this worker's units only between individual ticks.
func (w *Worker) Guard() sync.Locker {
	return w.guard
}

// Submit queues a task on the worker.
//
// A nil return guarantees the task will run: tasks accepted before stop are
// drained during shutdown. Submit blocks while the queue is full.
//
// Parameters:
//   - task: Function executed on the worker goroutine
//
// Returns:
//   - error: ErrWorkerClosed if the worker has been stopped
func (w *Worker) Submit(task func()) error {
	select {
	case <-w.quit:
		return ErrWorkerClosed
	default:
	}

	select {
	case w.tasks <- task:
		return nil
	case <-w.quit:
		return ErrWorkerClosed
	}
}

// stop signals the run loop to exit. Idempotent.
func (w *Worker) stop() {
	w.stopOnce.Do(func() {
		close(w.quit)
	})
}

// join blocks until the run loop has exited or the context ends.
func (w *Worker) join(ctx context.Context) error {
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// queueDepth reports the number of tasks waiting in the queue.
func (w *Worker) queueDepth() int {
	return len(w.tasks)
}

func (w *Worker) run() {
	defer close(w.done)

	for {
		select {
		case task := <-w.tasks:
			w.runTask(task)
		case <-w.quit:
			// Drain tasks that won the submit race against stop, so a nil
			// Submit always means the task ran.
			for {
				select {
				case task := <-w.tasks:
					w.runTask(task)
				default:
					return
				}
			}
		}
	}
}

// runTask executes one task, keeping the goroutine alive if it panics.
func (w *Worker) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("worker task panicked", "worker_id", w.id, "panic", r)
		}
	}()

	task()
}
