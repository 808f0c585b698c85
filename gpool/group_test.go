package gpool_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/focusgc/focusgc/gpool"
)

func TestGroup_WaitReportsQuiescence(t *testing.T) {
	g := gpool.New(context.Background(), 4)
	defer g.Close()

	var ran atomic.Int32
	for i := 0; i < 50; i++ {
		g.Go(func(context.Context) error {
			ran.Add(1)
			return nil
		})
	}

	assert.NoError(t, g.Wait())
	assert.EqualValues(t, 50, ran.Load())
}

// TestGroup_SelfEnqueueingFanOut is the regression this pool exists for: a
// running task enqueues more tasks of the same kind, the way a mark visitor
// enqueues a visitor per newly-discovered rdep. A semaphore-gated Go would
// deadlock once every worker is simultaneously mid-fan-out; this pool must
// not.
func TestGroup_SelfEnqueueingFanOut(t *testing.T) {
	const depth = 500
	g := gpool.New(context.Background(), 4)
	defer g.Close()

	var ran atomic.Int32
	var enqueue func(remaining int)
	enqueue = func(remaining int) {
		g.Go(func(context.Context) error {
			ran.Add(1)
			if remaining > 0 {
				enqueue(remaining - 1)
			}
			return nil
		})
	}
	enqueue(depth)

	assert.NoError(t, g.Wait())
	assert.EqualValues(t, depth+1, ran.Load())
}

func TestGroup_Wait_IsReusable(t *testing.T) {
	g := gpool.New(context.Background(), 2)
	defer g.Close()

	var first, second atomic.Int32
	g.Go(func(context.Context) error { first.Add(1); return nil })
	assert.NoError(t, g.Wait())

	g.Go(func(context.Context) error { second.Add(1); return nil })
	assert.NoError(t, g.Wait())

	assert.EqualValues(t, 1, first.Load())
	assert.EqualValues(t, 1, second.Load())
}

func TestGroup_FailFast_FirstErrorWins(t *testing.T) {
	g := gpool.New(context.Background(), 4)
	defer g.Close()

	boom := errors.New("boom")
	var attempted atomic.Int32
	for i := 0; i < 100; i++ {
		g.Go(func(ctx context.Context) error {
			if ctx.Err() != nil {
				return nil
			}
			attempted.Add(1)
			return boom
		})
	}

	err := g.Wait()
	assert.ErrorIs(t, err, boom)
	// Fail-fast cancellation means not every task necessarily ran to the
	// point of returning boom; the pool must still report exactly the
	// first error observed.
	assert.True(t, attempted.Load() >= 1)
}

func TestGroup_ParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g := gpool.New(ctx, 2)
	defer g.Close()

	cancel()
	g.Go(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	assert.Error(t, g.Wait())
}
