// Package gerr defines the fatal error types the focuser's phases raise:
// a missing node, a node that is neither Done nor recoverably
// CheckDependencies, and caller-initiated cancellation. All three carry
// structured payload (the key's canonical name, its lifecycle) rather than
// being bare sentinels, since callers are expected to report "which key"
// rather than merely "what kind of failure" -- generalizing the teacher's
// sentinel-error convention (core.ErrEdgeNotFound, core.ErrVertexNotFound)
// to errors that need to carry more than a fixed message.
package gerr

import (
	"fmt"

	"github.com/focusgc/focusgc/gkey"
	"github.com/focusgc/focusgc/graph"
)

// ErrMissingNode is raised when a mark or verification visitor is given a
// key with no corresponding node entry. Always fatal unless the caller
// relaxed strictness for leaves (see the root package's
// WithStrictMissingNode option), in which case it is recorded as a skip
// instead of being returned.
type ErrMissingNode struct {
	Key gkey.Key
}

func (e *ErrMissingNode) Error() string {
	return fmt.Sprintf("focus: missing node entry for key %q", e.Key.Canonical)
}

// ErrNotDone is raised when a visited node is neither Done nor
// CheckDependencies (which is recovered locally by demotion, not by this
// error).
type ErrNotDone struct {
	Key       gkey.Key
	Lifecycle graph.Lifecycle
}

func (e *ErrNotDone) Error() string {
	return fmt.Sprintf("focus: node %q is not done (lifecycle=%s)", e.Key.Canonical, e.Lifecycle)
}

// ErrInterrupted wraps caller-initiated cancellation (context.Canceled or
// context.DeadlineExceeded) surfaced from a worker pool. The graph is left
// in an intermediate state when this is returned; callers must discard it.
type ErrInterrupted struct {
	Cause error
}

func (e *ErrInterrupted) Error() string {
	return fmt.Sprintf("focus: interrupted: %v", e.Cause)
}

func (e *ErrInterrupted) Unwrap() error { return e.Cause }
