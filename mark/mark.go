// Package mark implements the upward mark phase and the downward
// verification collector it spawns. Structurally this is the teacher's
// bfs.walker -- an enqueue/visit/dequeue loop with hook points -- widened
// from a single-goroutine FIFO queue to a gpool.Group-scheduled fan-out:
// every enqueue becomes a pool.Go call, and the "visited set gates enqueue"
// invariant is backed by gset.Set's atomic insert-if-absent instead of a
// plain map, which is only safe single-threaded.
//
// Recursion (both the rdep walk and the verification walk) is modeled
// entirely as task re-enqueue, never the call stack: traversal depth can
// exceed what any goroutine's stack should carry.
package mark

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/focusgc/focusgc/focuslog"
	"github.com/focusgc/focusgc/gerr"
	"github.com/focusgc/focusgc/gkey"
	"github.com/focusgc/focusgc/gpool"
	"github.com/focusgc/focusgc/graph"
	"github.com/focusgc/focusgc/gset"
)

// Expander expands a nested-set-of-artifacts key to its constituent artifact
// keys. ok is false when nested does not resolve to an expandable value, in
// which case the caller treats it as opaque (no expansion, no error --
// expansion is a best-effort concession, not a correctness requirement for
// keys that do not carry the expected value shape).
type Expander func(g *graph.Handle, nested gkey.Key) (artifacts []gkey.Key, ok bool)

// DefaultExpander expands a key whose entry's Value is a
// gkey.NestedArtifactSet. Callers whose evaluation engine represents nested
// artifact sets differently should supply their own Expander instead.
func DefaultExpander(g *graph.Handle, nested gkey.Key) ([]gkey.Key, bool) {
	entry, ok := g.Get(nested)
	if !ok {
		return nil, false
	}
	set, ok := entry.Value().(gkey.NestedArtifactSet)
	if !ok {
		return nil, false
	}
	return set.Artifacts, true
}

// Config bundles the collaborators and tunables a mark Run needs.
type Config struct {
	Graph  *graph.Handle
	Pool   *gpool.Group
	Logger zerolog.Logger

	// FanoutWarnThreshold logs a warning each time a single node's
	// observed rdep or dep count for one visit exceeds this many. <= 0
	// disables the warning.
	FanoutWarnThreshold int

	// StrictMissingNode, when true (the default the root package wires),
	// makes a missing or not-done *leaf* fatal. When false, such a leaf is
	// recorded in Result.SkippedLeaves instead. This relaxation applies
	// only to the initially-seeded leaves -- a missing or not-done node
	// discovered while walking rdeps or direct deps is always fatal, since
	// those keys come from edges the graph itself asserts exist.
	StrictMissingNode bool

	// ExpandNestedArtifacts expands a nested-set-of-artifacts key. Nil
	// defaults to DefaultExpander.
	ExpandNestedArtifacts Expander
}

// Run seeds kept_rdeps from leaves and kept_deps from roots, drives the mark
// phase (and the verification collection it spawns) to quiescence on
// cfg.Pool, then applies the two post-mark set adjustments. It does not call
// cfg.Pool.Close(); the caller's pool may still be needed for sweep.
func Run(cfg Config, roots, leaves []gkey.Key) (*Result, error) {
	if cfg.ExpandNestedArtifacts == nil {
		cfg.ExpandNestedArtifacts = DefaultExpander
	}

	res := newResult()
	verSeen := gset.New()

	for _, r := range roots {
		res.KeptDeps.InsertIfAbsent(r)
	}

	for _, l := range leaves {
		if res.KeptRdeps.InsertIfAbsent(l) {
			l := l
			cfg.Pool.Go(func(context.Context) error {
				return visitLeaf(cfg, res, verSeen, l)
			})
		}
	}

	if err := cfg.Pool.Wait(); err != nil {
		return nil, err
	}

	// Invariant 6: the upward closure partition dominates.
	res.KeptDeps.Subtract(res.KeptRdeps)
	// Invariant 7.
	res.VerificationSet.Subtract(res.KeptDeps)

	return res, nil
}

// visitLeaf is the NodeVisitor entry point for a seeded leaf: the one place
// a missing or not-done node can be downgraded to a recorded skip instead of
// a fatal error, per Config.StrictMissingNode.
func visitLeaf(cfg Config, res *Result, verSeen *gset.Set, key gkey.Key) error {
	entry, ok := cfg.Graph.Get(key)
	if !ok {
		if cfg.StrictMissingNode {
			return &gerr.ErrMissingNode{Key: key}
		}
		res.KeptRdeps.Remove(key)
		res.recordSkippedLeaf(key)
		return nil
	}
	if !entry.IsDone() {
		if entry.LifecycleState() == graph.CheckDependencies {
			res.KeptRdeps.Remove(key)
			return nil
		}
		if cfg.StrictMissingNode {
			return &gerr.ErrNotDone{Key: key, Lifecycle: entry.LifecycleState()}
		}
		res.KeptRdeps.Remove(key)
		res.recordSkippedLeaf(key)
		return nil
	}
	return visitDone(cfg, res, verSeen, key, entry)
}

// visitNode is the NodeVisitor entry point for a key discovered as a rdep of
// some other node. Always strict: such keys name edges the graph itself
// asserts exist, so a miss here is an internal invariant violation, not a
// caller-input problem.
func visitNode(cfg Config, res *Result, verSeen *gset.Set, key gkey.Key) error {
	entry, ok := cfg.Graph.Get(key)
	if !ok {
		return &gerr.ErrMissingNode{Key: key}
	}
	if !entry.IsDone() {
		if entry.LifecycleState() == graph.CheckDependencies {
			res.KeptRdeps.Remove(key)
			return nil
		}
		return &gerr.ErrNotDone{Key: key, Lifecycle: entry.LifecycleState()}
	}
	return visitDone(cfg, res, verSeen, key, entry)
}

// visitDone is steps 3-4 of the NodeVisitor algorithm, common to leaves and
// interior nodes once the Done check has passed.
func visitDone(cfg Config, res *Result, verSeen *gset.Set, key gkey.Key, entry *graph.Entry) error {
	rdeps := entry.ReverseDepsDone()
	warnFanout(cfg, "rdep", key, len(rdeps))
	for _, rd := range rdeps {
		if res.KeptRdeps.InsertIfAbsent(rd) {
			rd := rd
			cfg.Pool.Go(func(context.Context) error {
				return visitNode(cfg, res, verSeen, rd)
			})
		}
	}

	deps := entry.DirectDeps()
	warnFanout(cfg, "dep", key, len(deps))
	for _, d := range deps {
		admitOrCollect(cfg, res, verSeen, d)
		if !d.IsNestedArtifactSet() {
			continue
		}
		artifacts, ok := cfg.ExpandNestedArtifacts(cfg.Graph, d)
		if !ok {
			continue
		}
		warnFanout(cfg, "dep", d, len(artifacts))
		for _, a := range artifacts {
			admitOrCollect(cfg, res, verSeen, a)
		}
	}
	return nil
}

// admitOrCollect routes one direct dep (or expanded nested-set artifact) to
// the right set: a filesystem-witness-eligible key never becomes a
// kept-dep -- it is a terminus for the verification walk, not a frontier --
// so it goes straight through maybeCollectVerification, which recognizes it
// and inserts it into the verification set. Every other key is admitted as
// a kept-dep and, if newly admitted, also walked for witnesses beneath it.
//
// This ordering matters: admitting a witness key into kept_deps as well
// would survive the post-mark "kept_deps -= kept_rdeps" subtraction (a
// witness outside the active directories is, by definition, not reachable
// via the rdep walk) and then be stripped back out of verification_set by
// the following "verification_set -= kept_deps" step -- silently losing the
// witness instead of retaining it.
func admitOrCollect(cfg Config, res *Result, verSeen *gset.Set, d gkey.Key) {
	if d.IsWitnessEligible() {
		maybeCollectVerification(cfg, res, verSeen, d)
		return
	}
	if res.KeptDeps.InsertIfAbsent(d) {
		maybeCollectVerification(cfg, res, verSeen, d)
	}
}

func warnFanout(cfg Config, edgeKind string, key gkey.Key, observed int) {
	if cfg.FanoutWarnThreshold > 0 && observed > cfg.FanoutWarnThreshold {
		focuslog.WarnFanout(cfg.Logger, edgeKind, key.Canonical, observed, cfg.FanoutWarnThreshold)
	}
}

// maybeCollectVerification is the verification collector's entry point,
// invoked inline (cheaply) rather than as its own task: only the recursive
// fetch-and-fan-out in collectVerification is enqueued as a task.
func maybeCollectVerification(cfg Config, res *Result, verSeen *gset.Set, k gkey.Key) {
	if res.KeptRdeps.Contains(k) {
		return
	}
	if k.IsWitnessEligible() {
		res.VerificationSet.InsertIfAbsent(k)
		return
	}
	if !verSeen.InsertIfAbsent(k) {
		return
	}
	cfg.Pool.Go(func(context.Context) error {
		return collectVerification(cfg, res, verSeen, k)
	})
}

// collectVerification is the CollectVerification(k) task: fetch k (which
// must exist -- it was named as a direct dep of an already-Done node) and
// recurse into its own direct deps.
func collectVerification(cfg Config, res *Result, verSeen *gset.Set, k gkey.Key) error {
	entry, ok := cfg.Graph.Get(k)
	if !ok {
		return &gerr.ErrMissingNode{Key: k}
	}
	for _, d := range entry.DirectDeps() {
		maybeCollectVerification(cfg, res, verSeen, d)
	}
	return nil
}
