// Package gkey defines the canonical key type shared by every other package
// in this module: graph, gset, gpool, mark, sweep, and the root focus
// package. A Key never carries mutable state; it is the opaque, hashable,
// totally-ordered name the focuser uses to address nodes.
//
// Concurrency: Key is an immutable value type; copying and comparing it is
// always safe across goroutines.
package gkey

// Kind classifies a Key for the two predicates the focuser needs: whether a
// key is filesystem-witness-eligible, and whether it denotes a nested set of
// artifacts that must be expanded during mark. Kind is a pure function of
// how the key was constructed; it never changes afterward.
type Kind uint8

const (
	// KindGeneric is an ordinary evaluation-graph key: neither a filesystem
	// witness nor a nested artifact set.
	KindGeneric Kind = iota

	// KindFileState marks a key as representing a rooted filesystem path or
	// a directory-listing state. Such keys are witness-eligible: the
	// verification collector retains them instead of recursing through
	// them.
	KindFileState

	// KindNestedArtifactSet marks a key whose value is a compact,
	// transitively-closed set of artifact references consumed by the
	// evaluation engine without per-artifact edges. The mark phase expands
	// these via the configured expander hook.
	KindNestedArtifactSet
)

// Key is the canonical, totally-ordered name of a node in the evaluation
// graph. Two Keys are equal iff their Canonical strings and Kinds match;
// Canonical alone determines order, since Kind is derived data about the
// same namespace rather than a separate dimension to sort by.
type Key struct {
	// Canonical is the opaque canonical name. Callers are responsible for
	// canonicalizing paths/identifiers before constructing a Key; this
	// package performs no normalization.
	Canonical string

	kind Kind
}

// New returns a generic Key with no special predicates.
func New(canonical string) Key {
	return Key{Canonical: canonical, kind: KindGeneric}
}

// NewFileState returns a Key marked filesystem-witness-eligible.
func NewFileState(canonical string) Key {
	return Key{Canonical: canonical, kind: KindFileState}
}

// NewNestedArtifactSet returns a Key marked as a nested set of artifacts.
func NewNestedArtifactSet(canonical string) Key {
	return Key{Canonical: canonical, kind: KindNestedArtifactSet}
}

// Kind reports the Key's classification.
func (k Key) Kind() Kind { return k.kind }

// IsWitnessEligible reports whether k is a filesystem-witness-eligible key:
// a rooted filesystem path or directory-listing state. This predicate is
// pure and depends only on how the Key was constructed.
func (k Key) IsWitnessEligible() bool { return k.kind == KindFileState }

// IsNestedArtifactSet reports whether k denotes a nested set of artifacts
// that must be expanded to its constituent artifact keys during mark.
func (k Key) IsNestedArtifactSet() bool { return k.kind == KindNestedArtifactSet }

// Less reports whether k sorts before other, by canonical name. This gives
// Key a total order for deterministic enumeration (diagnostics, golden
// tests), matching the corpus convention of sorting by a stable string ID
// (core.Graph.Edges sorts by Edge.ID, for instance).
func (k Key) Less(other Key) bool { return k.Canonical < other.Canonical }

// String returns the canonical name, satisfying fmt.Stringer for logging.
func (k Key) String() string { return k.Canonical }
