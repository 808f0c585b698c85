// Package gpool provides the bounded-parallelism task group the focuser
// schedules mark, verification, and sweep work on: a fixed-size worker pool
// reading from an unbounded, mutex-guarded queue, with fail-fast
// cancellation and a quiescence barrier that does not tear the pool down.
//
// A semaphore-gated "Go blocks until a slot is free" design was considered
// and rejected: tasks here are scheduled from *within* already-running
// tasks (a mark visitor enqueuing the visitors for its reverse deps, a
// verification task enqueuing more verification tasks), so a submitting
// goroutine is always itself occupying a slot. If submission also had to
// acquire a slot, N busy workers simultaneously fanning out would deadlock
// waiting on each other's slots. An unbounded backlog queue -- the same
// shape as the corpus's own errgroup-based DAG topology processor, but
// swapping the semaphore for a condition-variable queue -- keeps
// submission non-blocking while parallelism stays bounded by worker count.
package gpool

import (
	"context"
	"runtime"
	"sync"
)

// Task is a unit of work submitted to a Group.
type Task func(ctx context.Context) error

// Group is a fixed-size worker pool with fail-fast cancellation and a
// reusable quiescence barrier (Wait). The zero value is not usable;
// construct with New.
type Group struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []Task
	closed bool

	ctx    context.Context
	cancel context.CancelFunc

	wg sync.WaitGroup

	errOnce sync.Once
	err     error
}

// New starts a Group with parallelism worker goroutines, deriving a
// cancelable context from ctx. parallelism <= 0 defaults to
// runtime.GOMAXPROCS(0), matching the spec's "bounded parallelism equal to
// hardware concurrency".
func New(ctx context.Context, parallelism int) *Group {
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	cctx, cancel := context.WithCancel(ctx)
	g := &Group{ctx: cctx, cancel: cancel}
	g.cond = sync.NewCond(&g.mu)
	for i := 0; i < parallelism; i++ {
		go g.worker()
	}
	return g
}

// Context returns the group's derived context. It is canceled as soon as
// any task returns a non-nil error, or the parent context is canceled.
func (g *Group) Context() context.Context { return g.ctx }

// Go enqueues fn for execution by the next free worker. Go never blocks the
// caller on worker availability -- only on the internal queue mutex -- so it
// is always safe to call from within a running Task.
func (g *Group) Go(fn Task) {
	g.wg.Add(1)
	g.mu.Lock()
	g.queue = append(g.queue, fn)
	g.mu.Unlock()
	g.cond.Signal()
}

// Wait blocks until every task enqueued so far -- including tasks enqueued
// by other tasks while Wait was blocking -- has completed, then returns the
// first error encountered, if any. The Group remains usable afterward:
// Go may be called again, and a later Wait reports quiescence for that new
// work. This is the "await quiescence without shutting down" primitive the
// mark phase needs (verification tasks enqueued mid-mark are awaited by the
// same call), distinct from Close, which is the actual shutdown.
func (g *Group) Wait() error {
	g.wg.Wait()
	return g.err
}

// Close stops every worker goroutine once the queue drains. Call it only
// after a final Wait; it is the "pool shut down" step following sweep.
func (g *Group) Close() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
	g.cond.Broadcast()
}

func (g *Group) worker() {
	for {
		g.mu.Lock()
		for len(g.queue) == 0 && !g.closed {
			g.cond.Wait()
		}
		if len(g.queue) == 0 && g.closed {
			g.mu.Unlock()
			return
		}
		task := g.queue[0]
		g.queue = g.queue[1:]
		g.mu.Unlock()

		if cerr := g.ctx.Err(); cerr != nil {
			// Already canceled -- by a prior task's failure or by the
			// caller's own context -- so this task is skipped rather than
			// started. Record the cancellation itself as the group's
			// error if nothing has claimed that slot yet, so Wait still
			// surfaces it even when no task ever observed ctx.Done().
			g.errOnce.Do(func() { g.err = cerr })
		} else if err := task(g.ctx); err != nil {
			g.errOnce.Do(func() {
				g.err = err
				g.cancel()
			})
		}
		g.wg.Done()
	}
}
