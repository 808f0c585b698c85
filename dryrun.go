package focus

import (
	"sync/atomic"

	"github.com/focusgc/focusgc/gkey"
	"github.com/focusgc/focusgc/gpool"
	"github.com/focusgc/focusgc/graph"
	"github.com/focusgc/focusgc/mark"
)

// dryRunReport classifies every node exactly as sweep.Run would, via the
// same atomic-counter shape, but never mutates an entry or removes it from
// g: it is sweep's decision logic with every action replaced by a count.
func dryRunReport(g *graph.Handle, sets *mark.Result, pool *gpool.Group) (*DryRunReport, error) {
	var retain, frontier, witness, notDone, del atomic.Uint64

	g.ParallelForEach(pool, func(k gkey.Key, e *graph.Entry) error {
		switch {
		case sets.KeptRdeps.Contains(k):
			retain.Add(1)
		case sets.KeptDeps.Contains(k):
			frontier.Add(1)
		case sets.VerificationSet.Contains(k):
			witness.Add(1)
		case !e.IsDone():
			notDone.Add(1)
		default:
			del.Add(1)
		}
		return nil
	})

	if err := pool.Wait(); err != nil {
		return nil, err
	}

	return &DryRunReport{
		Retain:          retain.Load(),
		Frontier:        frontier.Load(),
		Witness:         witness.Load(),
		NotDoneRetained: notDone.Load(),
		Delete:          del.Load(),
	}, nil
}
