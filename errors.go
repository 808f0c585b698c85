package focus

import "github.com/focusgc/focusgc/gerr"

// ErrMissingNode, ErrNotDone, and ErrInterrupted are aliased from gerr so
// that callers can match against this package directly (var e
// *focus.ErrMissingNode; errors.As(err, &e)), without needing to know the
// internal error types live in a shared low-level package (mark raises the
// first two, this package raises ErrInterrupted).
type (
	ErrMissingNode = gerr.ErrMissingNode
	ErrNotDone     = gerr.ErrNotDone
	ErrInterrupted = gerr.ErrInterrupted
)
