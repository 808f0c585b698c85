package focus

import "github.com/focusgc/focusgc/gkey"

// FocusResult is the immutable snapshot a completed Focus call returns.
type FocusResult struct {
	// Roots and Leaves echo the call's inputs, sorted for deterministic
	// diagnostics.
	Roots  []gkey.Key
	Leaves []gkey.Key

	// Rdeps, Deps, and VerificationSet are read-only snapshots of
	// kept_rdeps, kept_deps, and verification_set at the end of mark.
	Rdeps           map[gkey.Key]struct{}
	Deps            map[gkey.Key]struct{}
	VerificationSet map[gkey.Key]struct{}

	// SkippedLeaves lists seeded leaves recorded as a skip rather than a
	// fatal error, per WithStrictMissingNode(false). Empty under the
	// default strict behavior.
	SkippedLeaves []gkey.Key

	// RdepEdgesBefore and RdepEdgesAfter total reverse-dep edges observed
	// and kept across the kept-deps and verification-set sweep cases. Both
	// are zero when DryRun is non-nil instead.
	RdepEdgesBefore uint64
	RdepEdgesAfter  uint64

	// DryRun is non-nil only when the call used WithDryRun: it reports
	// what sweep would have done instead of doing it.
	DryRun *DryRunReport
}

// Stats is a small diagnostic aggregate over a FocusResult, mirroring the
// corpus's VertexCount-style Stats()/GraphStats convention.
type Stats struct {
	Roots           int
	Leaves          int
	Rdeps           int
	Deps            int
	VerificationSet int
	SkippedLeaves   int
	RdepEdgesBefore uint64
	RdepEdgesAfter  uint64
}

// Stats summarizes r as counts, for logging or assertions that don't need
// the full key sets.
func (r *FocusResult) Stats() Stats {
	return Stats{
		Roots:           len(r.Roots),
		Leaves:          len(r.Leaves),
		Rdeps:           len(r.Rdeps),
		Deps:            len(r.Deps),
		VerificationSet: len(r.VerificationSet),
		SkippedLeaves:   len(r.SkippedLeaves),
		RdepEdgesBefore: r.RdepEdgesBefore,
		RdepEdgesAfter:  r.RdepEdgesAfter,
	}
}

// DryRunReport counts, per sweep disposition, how many nodes would receive
// each treatment without mutating the graph.
type DryRunReport struct {
	Retain          uint64 // kept-rdeps: untouched
	Frontier        uint64 // kept-deps: would be flattened to a frontier
	Witness         uint64 // verification-set: would be flattened to a witness
	NotDoneRetained uint64 // not Done: untouched
	Delete          uint64 // would be deleted
}
