package focus

import (
	"context"
	"sort"

	"github.com/focusgc/focusgc/actioncache"
	"github.com/focusgc/focusgc/focuslog"
	"github.com/focusgc/focusgc/gkey"
	"github.com/focusgc/focusgc/gpool"
	"github.com/focusgc/focusgc/graph"
	"github.com/focusgc/focusgc/mark"
	"github.com/focusgc/focusgc/sweep"
)

// Focus prunes g down to the minimum subgraph that preserves incremental-
// build correctness for leaves, anchored by roots, retaining a verification
// set of filesystem-witness nodes for changes outside them. cache is
// optional; a nil cache means no action-cache eviction is attempted.
//
// Focus runs mark (and the verification collection it spawns) to
// quiescence, then sweep, on a single shared worker pool sized by
// WithParallelism (default: hardware concurrency), closing the pool only
// once sweep has finished. A caller-canceled ctx surfaces as
// ErrInterrupted; the graph is left in whatever intermediate state the
// cancellation caught it in and must be discarded.
func Focus(ctx context.Context, g *graph.Handle, cache actioncache.ActionCache, roots, leaves []gkey.Key, opts ...Option) (*FocusResult, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	pool := gpool.New(ctx, o.parallelism)
	defer pool.Close()

	markCfg := mark.Config{
		Graph:                 g,
		Pool:                  pool,
		Logger:                o.logger,
		FanoutWarnThreshold:   o.fanoutWarnThreshold,
		StrictMissingNode:     o.strictMissingNode,
		ExpandNestedArtifacts: o.expander,
	}

	doneMark := focuslog.Region(o.logger, "focus.mark")
	sets, err := mark.Run(markCfg, roots, leaves)
	doneMark()
	if err != nil {
		return nil, wrapInterrupted(ctx, err)
	}

	result := &FocusResult{
		Roots:           sortedCopy(roots),
		Leaves:          sortedCopy(leaves),
		Rdeps:           sets.KeptRdeps.Freeze(),
		Deps:            sets.KeptDeps.Freeze(),
		VerificationSet: sets.VerificationSet.Freeze(),
		SkippedLeaves:   sets.SkippedLeaves(),
	}

	doneSweep := focuslog.Region(o.logger, "focus.sweep")
	defer doneSweep()

	if o.dryRun {
		report, derr := dryRunReport(g, sets, pool)
		if derr != nil {
			return nil, wrapInterrupted(ctx, derr)
		}
		result.DryRun = report
		return result, nil
	}

	before, after, serr := sweep.Run(ctx, g, cache, sets, pool)
	if serr != nil {
		return nil, wrapInterrupted(ctx, serr)
	}
	result.RdepEdgesBefore = before
	result.RdepEdgesAfter = after

	return result, nil
}

// wrapInterrupted reports err as ErrInterrupted when it stems from ctx
// cancellation, passing through any other error (ErrMissingNode, ErrNotDone)
// unchanged.
func wrapInterrupted(ctx context.Context, err error) error {
	if cerr := ctx.Err(); cerr != nil {
		return &ErrInterrupted{Cause: cerr}
	}
	return err
}

func sortedCopy(keys []gkey.Key) []gkey.Key {
	out := make([]gkey.Key, len(keys))
	copy(out, keys)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
