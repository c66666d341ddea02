package tickshard

import (
	"context"
	"sync/atomic"
)

// Barrier is a single-use countdown latch returned by Dispatch.
//
// It starts at the worker count and is signaled once per worker when that
// worker's batch finishes (or is skipped on the idle fast path). Callers
// block on Wait, WaitContext, or the Done channel until every worker has
// reported in; the barrier then stays open forever.
type Barrier struct {
	pending atomic.Int32
	done    chan struct{}
}

// newBarrier returns a barrier that opens after count signals.
// A count of zero opens immediately.
func newBarrier(count int32) *Barrier {
	b := &Barrier{done: make(chan struct{})}
	b.pending.Store(count)
	if count <= 0 {
		close(b.done)
	}

	return b
}

// signal records one worker completion. The barrier opens on the signal that
// brings the count to zero; extra signals are ignored.
func (b *Barrier) signal() {
	if b.pending.Add(-1) == 0 {
		close(b.done)
	}
}

// Wait blocks until every worker has signaled the barrier.
//
// Example:
//
//	barrier, err := sched.Dispatch(time.Now())
//	if err != nil {
//	    return err
//	}
//	barrier.Wait()
func (b *Barrier) Wait() {
	<-b.done
}

// WaitContext blocks until the barrier opens or the context is canceled.
//
// The tick keeps running either way; a context error only releases the
// caller, it does not cancel in-flight batches.
//
// Parameters:
//   - ctx: Context for cancellation and deadline
//
// Returns:
//   - error: ctx.Err() if the context ended first, nil once the barrier opens
func (b *Barrier) WaitContext(ctx context.Context) error {
	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done returns a channel closed when every worker has signaled the barrier.
// Useful for select loops that multiplex the tick with other events.
func (b *Barrier) Done() <-chan struct{} {
	return b.done
}

// Pending returns the number of workers that have not signaled yet.
// Intended for observability; the value may be stale by the time it is read.
func (b *Barrier) Pending() int {
	n := b.pending.Load()
	if n < 0 {
		n = 0
	}

	return int(n)
}
