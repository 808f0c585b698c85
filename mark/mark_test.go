package mark_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusgc/focusgc/focuslog"
	"github.com/focusgc/focusgc/gerr"
	"github.com/focusgc/focusgc/gkey"
	"github.com/focusgc/focusgc/gpool"
	"github.com/focusgc/focusgc/graph"
	"github.com/focusgc/focusgc/internal/synthetic"
	"github.com/focusgc/focusgc/mark"
)

func newCfg(g *graph.Handle) (mark.Config, *gpool.Group) {
	pool := gpool.New(context.Background(), 4)
	return mark.Config{
		Graph:               g,
		Pool:                pool,
		Logger:              focuslog.Nop(),
		FanoutWarnThreshold: 10000,
		StrictMissingNode:   true,
	}, pool
}

// S1 - linear chain: R -> M -> L, focus(roots={R}, leaves={L}).
func TestMark_S1_LinearChain(t *testing.T) {
	chain := synthetic.LinearChain(3)
	root, mid, leaf := chain.Keys[0], chain.Keys[1], chain.Keys[2]

	cfg, pool := newCfg(chain.Handle)
	defer pool.Close()

	res, err := mark.Run(cfg, []gkey.Key{root}, []gkey.Key{leaf})
	require.NoError(t, err)

	assert.ElementsMatch(t, []gkey.Key{leaf, mid, root}, res.KeptRdeps.Keys())
	assert.Empty(t, res.KeptDeps.Keys())
	assert.Empty(t, res.VerificationSet.Keys())
}

// S2 - diamond with external witness.
func TestMark_S2_DiamondWithWitness(t *testing.T) {
	d := synthetic.BuildDiamond()

	cfg, pool := newCfg(d.Handle)
	defer pool.Close()

	res, err := mark.Run(cfg, []gkey.Key{d.Root}, []gkey.Key{d.Leaf})
	require.NoError(t, err)

	assert.ElementsMatch(t, []gkey.Key{d.Leaf, d.A, d.B, d.Root}, res.KeptRdeps.Keys())
	assert.Empty(t, res.KeptDeps.Keys())
	assert.ElementsMatch(t, []gkey.Key{d.Witness}, res.VerificationSet.Keys())
}

// S4 - CheckDependencies recovery: same shape as S1, but M is in
// CheckDependencies state. Traversal must not propagate through it to R.
func TestMark_S4_CheckDependenciesRecovery(t *testing.T) {
	root, mid, leaf := gkey.New("r"), gkey.New("m"), gkey.New("l")
	g := graph.NewHandle()
	g.Put(root, graph.NewEntry(graph.Done, nil, []gkey.Key{mid}, nil))
	g.Put(mid, graph.NewEntry(graph.CheckDependencies, nil, []gkey.Key{leaf}, []gkey.Key{root}))
	g.Put(leaf, graph.NewEntry(graph.Done, nil, nil, []gkey.Key{mid}))

	cfg, pool := newCfg(g)
	defer pool.Close()

	res, err := mark.Run(cfg, []gkey.Key{root}, []gkey.Key{leaf})
	require.NoError(t, err)

	assert.ElementsMatch(t, []gkey.Key{leaf}, res.KeptRdeps.Keys())
}

// S5 - nested-set-of-artifacts expansion, with the leaf/root invariants
// (kept_deps and kept_rdeps partition) applied to the scenario's degenerate
// leaf==root case.
func TestMark_S5_NestedArtifactExpansion(t *testing.T) {
	n := synthetic.BuildNestedExpansion()

	cfg, pool := newCfg(n.Handle)
	defer pool.Close()

	res, err := mark.Run(cfg, []gkey.Key{n.Root}, []gkey.Key{n.Root})
	require.NoError(t, err)

	assert.ElementsMatch(t, []gkey.Key{n.Root}, res.KeptRdeps.Keys())
	assert.ElementsMatch(t, []gkey.Key{n.Nested, n.Artifact1, n.Artifact2}, res.KeptDeps.Keys())
	assert.ElementsMatch(t, []gkey.Key{n.Witness}, res.VerificationSet.Keys())
}

func TestMark_MissingLeaf_FatalByDefault(t *testing.T) {
	g := graph.NewHandle()
	cfg, pool := newCfg(g)
	defer pool.Close()

	_, err := mark.Run(cfg, nil, []gkey.Key{gkey.New("ghost")})
	var missing *gerr.ErrMissingNode
	assert.ErrorAs(t, err, &missing)
}

func TestMark_MissingLeaf_RelaxedIsRecordedNotFatal(t *testing.T) {
	g := graph.NewHandle()
	cfg, pool := newCfg(g)
	cfg.StrictMissingNode = false
	defer pool.Close()

	ghost := gkey.New("ghost")
	res, err := mark.Run(cfg, nil, []gkey.Key{ghost})
	require.NoError(t, err)

	assert.ElementsMatch(t, []gkey.Key{ghost}, res.SkippedLeaves())
	assert.Empty(t, res.KeptRdeps.Keys())
}

func TestMark_NotDoneInteriorNode_AlwaysFatal(t *testing.T) {
	// Unlike a leaf, a not-done node discovered via rdep traversal is
	// always fatal regardless of StrictMissingNode.
	root, rdep := gkey.New("root"), gkey.New("rdep")
	g := graph.NewHandle()
	g.Put(root, graph.NewEntry(graph.Done, nil, nil, []gkey.Key{rdep}))
	g.Put(rdep, graph.NewEntry(graph.OtherNotDone, nil, nil, nil))

	cfg, pool := newCfg(g)
	cfg.StrictMissingNode = false
	defer pool.Close()

	_, err := mark.Run(cfg, nil, []gkey.Key{root})
	var notDone *gerr.ErrNotDone
	assert.ErrorAs(t, err, &notDone)
}

func TestMark_FanoutWarningThreshold_DoesNotAffectCorrectness(t *testing.T) {
	// tree.Root depends directly on all of tree.Children; seeding Root as
	// the sole leaf exercises the dep fan-out path (and its warning
	// threshold) rather than the rdep fan-out path.
	tree := synthetic.FanOutTree(50)

	cfg, pool := newCfg(tree.Handle)
	cfg.FanoutWarnThreshold = 10
	defer pool.Close()

	res, err := mark.Run(cfg, nil, []gkey.Key{tree.Root})
	require.NoError(t, err)

	assert.ElementsMatch(t, []gkey.Key{tree.Root}, res.KeptRdeps.Keys())
	assert.ElementsMatch(t, tree.Children, res.KeptDeps.Keys())
}
