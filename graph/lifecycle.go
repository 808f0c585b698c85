package graph

// Lifecycle describes the evaluation state of a node entry. The focuser
// never evaluates nodes; it only reads this field to decide whether an
// entry's dependency edges are trustworthy (Done) or must be handled by one
// of the two recovery paths described in package mark.
type Lifecycle uint8

const (
	// Done nodes have a finalized value and finalized direct/reverse deps.
	Done Lifecycle = iota

	// CheckDependencies nodes were invalidated by a precomputed build-id
	// bump and may legitimately remain unevaluated this build. The mark
	// phase demotes such a node out of kept-rdeps rather than failing.
	CheckDependencies

	// OtherNotDone covers every other non-Done state. Visiting one during
	// mark is a fatal error (ErrNotDone) unless the caller has relaxed
	// strictness for leaves via WithStrictMissingNode(false).
	OtherNotDone
)

// String renders the lifecycle for logs and error messages.
func (l Lifecycle) String() string {
	switch l {
	case Done:
		return "done"
	case CheckDependencies:
		return "check-dependencies"
	case OtherNotDone:
		return "other-not-done"
	default:
		return "unknown"
	}
}
