// Package sweep implements the sweep phase: a parallel rewrite of every
// surviving node, deciding per node whether to retain it untouched, flatten
// it to a frontier or a verification witness, or delete it (evicting its
// action outputs from the action cache first).
package sweep

import (
	"context"
	"sync/atomic"

	"github.com/focusgc/focusgc/actioncache"
	"github.com/focusgc/focusgc/gkey"
	"github.com/focusgc/focusgc/gpool"
	"github.com/focusgc/focusgc/graph"
	"github.com/focusgc/focusgc/mark"
)

// Run parallel-rewrites every node in g according to its membership in the
// three kept sets sets computed by a prior mark.Run, submitting one task per
// node to pool and awaiting quiescence before shrinking the graph. It does
// not call pool.Close(); the caller shuts the pool down once sweep is the
// last work submitted to it.
//
// edgesBefore and edgesAfter are the totals, across every node touched by
// the kept-deps and verification-set cases, of reverse-dep edges observed
// before and kept after -- accumulated via atomic.Uint64 rather than a
// mutex-guarded counter, since every one of the pool's workers contributes
// concurrently.
func Run(ctx context.Context, g *graph.Handle, cache actioncache.ActionCache, sets *mark.Result, pool *gpool.Group) (edgesBefore, edgesAfter uint64, err error) {
	var before, after atomic.Uint64

	g.ParallelForEach(pool, func(k gkey.Key, e *graph.Entry) error {
		switch {
		case sets.KeptRdeps.Contains(k):
			// Any rdep of a kept-rdep is itself a kept-rdep by
			// construction, so this node's edges never dangle; nothing to
			// rewrite.
			return nil

		case sets.KeptDeps.Contains(k):
			rdeps := e.ReverseDepsDone()
			var kept uint64
			for _, r := range rdeps {
				if sets.KeptRdeps.Contains(r) {
					kept++
				} else {
					e.RemoveReverseDep(r)
				}
			}
			e.ClearDirectDepsForFocus()
			e.ConsolidateReverseDeps()
			before.Add(uint64(len(rdeps)))
			after.Add(kept)
			return nil

		case sets.VerificationSet.Contains(k):
			rdeps := e.ReverseDepsDone()
			for _, r := range rdeps {
				e.RemoveReverseDep(r)
			}
			e.ConsolidateReverseDeps()
			before.Add(uint64(len(rdeps)))
			return nil

		case !e.IsDone():
			// Invalidated-but-not-reevaluated; may be needed later.
			return nil

		default:
			evictActionOutputs(ctx, cache, e)
			g.Remove(k)
			return nil
		}
	})

	if werr := pool.Wait(); werr != nil {
		return 0, 0, werr
	}

	g.Shrink()

	return before.Load(), after.Load(), nil
}

// evictActionOutputs removes every output path of every action an
// ActionLookupValue entry carries from cache, before the entry is deleted.
// A nil cache means no eviction was requested.
func evictActionOutputs(ctx context.Context, cache actioncache.ActionCache, e *graph.Entry) {
	if cache == nil {
		return
	}
	alv, ok := e.Value().(gkey.ActionLookupValue)
	if !ok {
		return
	}
	for _, action := range alv.Actions {
		for _, output := range action.Outputs {
			_ = cache.Remove(ctx, output)
		}
	}
}
