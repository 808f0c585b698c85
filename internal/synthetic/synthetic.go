// Package synthetic builds small, deterministic or seeded-random
// *graph.Handle instances for property and scenario tests, adapted from the
// corpus's topology-generator package: the same functional-options shape
// (WithSeed, WithIDScheme-equivalents) and the same "deterministic unless
// seeded" contract, but emitting Done graph.Entry nodes with direct/reverse
// deps instead of core.Graph vertices/edges, since that is what mark and
// sweep consume.
package synthetic

import (
	"fmt"
	"math/rand/v2"

	"github.com/focusgc/focusgc/gkey"
	"github.com/focusgc/focusgc/graph"
)

// config holds the tunables every generator in this package reads.
type config struct {
	rng               *rand.Rand
	witnessFraction   float64
	nestedSetFraction float64
}

func newConfig(opts ...Option) config {
	c := config{rng: rand.New(rand.NewPCG(1, 1))}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// Option customizes a generator.
type Option func(*config)

// WithSeed makes a generator's randomness reproducible. Only RandomDAG
// takes options; the fixed-shape builders (LinearChain, BuildDiamond,
// BuildNestedExpansion, FanOutTree) make no random decisions.
func WithSeed(seed uint64) Option {
	return func(c *config) { c.rng = rand.New(rand.NewPCG(seed, seed)) }
}

// WithWitnessFraction sets the probability (clamped to [0,1]) that
// RandomDAG tags a given generated key as filesystem-witness-eligible
// instead of generic.
func WithWitnessFraction(f float64) Option {
	return func(c *config) { c.witnessFraction = clamp01(f) }
}

// WithNestedSetFraction sets the probability (clamped to [0,1]) that
// RandomDAG tags a generated key as a nested-set-of-artifacts instead of
// generic.
func WithNestedSetFraction(f float64) Option {
	return func(c *config) { c.nestedSetFraction = clamp01(f) }
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

// builder accumulates node specs (key, value, direct deps) and derives
// reverse deps from the recorded direct-dep edges before materializing a
// *graph.Handle, matching invariant 1 of the data model: for every Done-Done
// edge u -> v, u must be in reverse_deps(v).
type builder struct {
	order []gkey.Key
	deps  map[gkey.Key][]gkey.Key
	value map[gkey.Key]gkey.Value
}

func newBuilder() *builder {
	return &builder{deps: map[gkey.Key][]gkey.Key{}, value: map[gkey.Key]gkey.Value{}}
}

// node registers k (idempotent) with the given direct deps and value. Every
// key referenced as a dep must also be registered via node, even with no
// deps of its own, so the resulting handle has an entry for every key a
// test addresses.
func (b *builder) node(k gkey.Key, value gkey.Value, deps ...gkey.Key) {
	if _, seen := b.deps[k]; !seen {
		b.order = append(b.order, k)
	}
	b.deps[k] = deps
	b.value[k] = value
}

func (b *builder) handle() *graph.Handle {
	reverse := make(map[gkey.Key][]gkey.Key, len(b.order))
	for _, k := range b.order {
		for _, d := range b.deps[k] {
			reverse[d] = append(reverse[d], k)
		}
	}
	h := graph.NewHandle()
	for _, k := range b.order {
		h.Put(k, graph.NewEntry(graph.Done, b.value[k], b.deps[k], reverse[k]))
	}
	return h
}

// Chain is the result of LinearChain: a straight-line dependency chain
// Keys[0] -> Keys[1] -> ... -> Keys[len-1], every node Done.
type Chain struct {
	Handle *graph.Handle
	Keys   []gkey.Key
}

// LinearChain builds a chain of n nodes (n >= 1), each depending on the
// next, grounding scenario S1 (roots={Keys[0]}, leaves={Keys[len-1]}).
func LinearChain(n int) *Chain {
	if n < 1 {
		n = 1
	}
	b := newBuilder()
	keys := make([]gkey.Key, n)
	for i := range keys {
		keys[i] = gkey.New(fmt.Sprintf("chain/%d", i))
	}
	for i, k := range keys {
		if i+1 < n {
			b.node(k, nil, keys[i+1])
		} else {
			b.node(k, nil)
		}
	}
	return &Chain{Handle: b.handle(), Keys: keys}
}

// Diamond is the result of a Diamond build, grounding scenario S2: Root
// depends on A and B, both of which depend on Leaf and on Witness (a
// filesystem-witness-eligible key outside the leaves set).
type Diamond struct {
	Handle        *graph.Handle
	Root, A, B    gkey.Key
	Leaf, Witness gkey.Key
}

// BuildDiamond constructs the S2 fixture.
func BuildDiamond() *Diamond {
	root := gkey.New("diamond/root")
	a := gkey.New("diamond/a")
	b := gkey.New("diamond/b")
	leaf := gkey.New("diamond/leaf")
	witness := gkey.NewFileState("diamond/witness")

	bld := newBuilder()
	bld.node(root, nil, a, b)
	bld.node(a, nil, leaf, witness)
	bld.node(b, nil, leaf, witness)
	bld.node(leaf, nil)
	bld.node(witness, nil)

	return &Diamond{Handle: bld.handle(), Root: root, A: a, B: b, Leaf: leaf, Witness: witness}
}

// NestedExpansion is the result of BuildNestedExpansion, grounding scenario
// S5: Root depends on a nested-set-of-artifacts key N expanding to {A1, A2},
// where A1 has a direct dep on a filesystem-witness key W1.
type NestedExpansion struct {
	Handle    *graph.Handle
	Root      gkey.Key
	Nested    gkey.Key
	Artifact1 gkey.Key
	Artifact2 gkey.Key
	Witness   gkey.Key
}

// BuildNestedExpansion constructs the S5 fixture.
func BuildNestedExpansion() *NestedExpansion {
	root := gkey.New("nested/root")
	nested := gkey.NewNestedArtifactSet("nested/set")
	a1 := gkey.New("nested/a1")
	a2 := gkey.New("nested/a2")
	w1 := gkey.NewFileState("nested/w1")

	bld := newBuilder()
	bld.node(root, nil, nested)
	bld.node(nested, gkey.NestedArtifactSet{Artifacts: []gkey.Key{a1, a2}})
	bld.node(a1, nil, w1)
	bld.node(a2, nil)
	bld.node(w1, nil)

	return &NestedExpansion{
		Handle: bld.handle(), Root: root, Nested: nested,
		Artifact1: a1, Artifact2: a2, Witness: w1,
	}
}

// FanOut is the result of FanOutTree: Root depends directly on every key in
// Children.
type FanOut struct {
	Handle   *graph.Handle
	Root     gkey.Key
	Children []gkey.Key
}

// FanOutTree builds a single root depending directly on n children, each a
// leaf with no further deps -- a breadth-heavy shape exercising mark's
// fan-out warning path when n exceeds a caller's configured threshold.
func FanOutTree(n int) *FanOut {
	root := gkey.New("fanout/root")
	children := make([]gkey.Key, n)
	for i := range children {
		children[i] = gkey.New(fmt.Sprintf("fanout/child/%d", i))
	}
	b := newBuilder()
	b.node(root, nil, children...)
	for _, c := range children {
		b.node(c, nil)
	}
	return &FanOut{Handle: b.handle(), Root: root, Children: children}
}

// DAG is the result of a RandomDAG build.
type DAG struct {
	Handle *graph.Handle
	Keys   []gkey.Key // topologically ascending: Keys[i] may depend only on Keys[j], j > i
}

// RandomDAG builds an Erdős–Rényi-style random DAG over n nodes: for every
// ordered pair (i, j) with i < j, an edge Keys[i] -> Keys[j] is included
// independently with probability edgeProb, guaranteeing acyclicity by
// construction (edges only point to higher indices, mirroring the corpus's
// own stable i-ascending, j-ascending trial order). Each key is
// independently tagged filesystem-witness-eligible or nested-set-of-
// artifacts per the configured fractions (mutually exclusive; witness wins
// ties).
func RandomDAG(n int, edgeProb float64, opts ...Option) *DAG {
	c := newConfig(opts...)
	if n < 1 {
		n = 1
	}
	edgeProb = clamp01(edgeProb)

	keys := make([]gkey.Key, n)
	for i := range keys {
		id := fmt.Sprintf("random/%d", i)
		switch {
		case c.rng.Float64() < c.witnessFraction:
			keys[i] = gkey.NewFileState(id)
		case c.rng.Float64() < c.nestedSetFraction:
			keys[i] = gkey.NewNestedArtifactSet(id)
		default:
			keys[i] = gkey.New(id)
		}
	}

	b := newBuilder()
	depsOf := make([][]gkey.Key, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if c.rng.Float64() < edgeProb {
				depsOf[i] = append(depsOf[i], keys[j])
			}
		}
	}
	for i, k := range keys {
		var value gkey.Value
		if k.IsNestedArtifactSet() {
			// Expand to the two nearest higher-indexed keys, if any, so the
			// default expander has something concrete to walk.
			var artifacts []gkey.Key
			for j := i + 1; j < n && len(artifacts) < 2; j++ {
				artifacts = append(artifacts, keys[j])
			}
			value = gkey.NestedArtifactSet{Artifacts: artifacts}
		}
		b.node(k, value, depsOf[i]...)
	}

	return &DAG{Handle: b.handle(), Keys: keys}
}
