package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/focusgc/focusgc/gkey"
	"github.com/focusgc/focusgc/graph"
)

func TestEntry_LifecycleAccessors(t *testing.T) {
	e := graph.NewEntry(graph.CheckDependencies, nil, nil, nil)
	assert.False(t, e.IsDone())
	assert.Equal(t, graph.CheckDependencies, e.LifecycleState())
}

func TestEntry_ReverseDepsDone_PanicsWhenNotDone(t *testing.T) {
	e := graph.NewEntry(graph.OtherNotDone, nil, nil, nil)
	assert.Panics(t, func() { e.ReverseDepsDone() })
}

func TestEntry_DirectDeps_Snapshot(t *testing.T) {
	a, b := gkey.New("a"), gkey.New("b")
	e := graph.NewEntry(graph.Done, nil, []gkey.Key{a, b}, nil)

	deps := e.DirectDeps()
	assert.Equal(t, []gkey.Key{a, b}, deps)

	e.ClearDirectDepsForFocus()
	assert.Empty(t, e.DirectDeps())
}

func TestEntry_ReverseDeps_DedupAndConsolidate(t *testing.T) {
	r1, r2 := gkey.New("r1"), gkey.New("r2")
	e := graph.NewEntry(graph.Done, nil, nil, []gkey.Key{r1, r2, r1})

	// Duplicates collapse at construction time (reverse_deps is a set).
	assert.ElementsMatch(t, []gkey.Key{r1, r2}, e.ReverseDepsDone())

	e.RemoveReverseDep(r1)
	// Not yet visible: removal is batched until consolidation.
	assert.ElementsMatch(t, []gkey.Key{r1, r2}, e.ReverseDepsDone())

	e.ConsolidateReverseDeps()
	assert.ElementsMatch(t, []gkey.Key{r2}, e.ReverseDepsDone())

	// A no-op consolidation (nothing pending) must not panic or alter state.
	e.ConsolidateReverseDeps()
	assert.ElementsMatch(t, []gkey.Key{r2}, e.ReverseDepsDone())
}

func TestEntry_Value(t *testing.T) {
	e := graph.NewEntry(graph.Done, gkey.ActionLookupValue{Actions: []gkey.Action{{Outputs: []string{"out"}}}}, nil, nil)
	alv, ok := e.Value().(gkey.ActionLookupValue)
	assert.True(t, ok)
	assert.Equal(t, []string{"out"}, alv.Actions[0].Outputs)
}
