package graph

import (
	"sort"
	"sync"

	"github.com/focusgc/focusgc/gkey"
)

// Entry holds the per-node state the focuser reads and mutates: lifecycle,
// value, direct deps, and reverse deps. The focuser never constructs or
// destroys the evaluation graph's content; it only borrows entries already
// populated by the evaluation engine (or, in tests, by internal/synthetic).
//
// Concurrency: mu guards every field below. In normal operation an entry is
// mutated by at most one goroutine at a time -- the single visitor that
// holds it during a Handle.ParallelForEach pass -- but the lock remains so
// that Get/ParallelForEach can safely overlap with direct field reads from
// library consumers outside the focuser's own traversal.
type Entry struct {
	mu sync.Mutex

	lifecycle   Lifecycle
	value       gkey.Value
	directDeps  []gkey.Key
	reverseDeps map[gkey.Key]struct{}

	// pendingRemovals batches RemoveReverseDep calls until the next
	// ConsolidateReverseDeps, per the spec's requirement that reads may see
	// stale edges until consolidation runs.
	pendingRemovals []gkey.Key
}

// NewEntry constructs an Entry with the given lifecycle, value, and edges.
// reverseDeps is copied into a set; duplicates collapse, matching the
// spec's "finite set" definition of reverse_deps.
func NewEntry(lifecycle Lifecycle, value gkey.Value, directDeps []gkey.Key, reverseDeps []gkey.Key) *Entry {
	rd := make(map[gkey.Key]struct{}, len(reverseDeps))
	for _, k := range reverseDeps {
		rd[k] = struct{}{}
	}
	dd := make([]gkey.Key, len(directDeps))
	copy(dd, directDeps)
	return &Entry{
		lifecycle:   lifecycle,
		value:       value,
		directDeps:  dd,
		reverseDeps: rd,
	}
}

// IsDone reports whether the entry's lifecycle is Done.
func (e *Entry) IsDone() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lifecycle == Done
}

// LifecycleState returns the entry's current lifecycle.
func (e *Entry) LifecycleState() Lifecycle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lifecycle
}

// ReverseDepsDone returns a stable, sorted snapshot of the entry's reverse
// deps. Callable only when the entry is Done; callers (package mark) check
// IsDone first, so a violation here is a programmer error, not a recoverable
// condition.
func (e *Entry) ReverseDepsDone() []gkey.Key {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lifecycle != Done {
		panic("graph: ReverseDepsDone called on a non-Done entry")
	}
	out := make([]gkey.Key, 0, len(e.reverseDeps))
	for k := range e.reverseDeps {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// DirectDeps returns a stable snapshot of the entry's direct deps, in
// insertion order. Order carries no semantic meaning per the data model,
// but a stable snapshot avoids torn reads under concurrent callers.
func (e *Entry) DirectDeps() []gkey.Key {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]gkey.Key, len(e.directDeps))
	copy(out, e.directDeps)
	return out
}

// Value returns the entry's opaque value.
func (e *Entry) Value() gkey.Value {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value
}

// ClearDirectDepsForFocus drops every outgoing edge from this entry. Used by
// sweep when a node becomes a frontier (a kept-dep): it will not be
// re-evaluated, so its outgoing edges serve no further purpose.
func (e *Entry) ClearDirectDepsForFocus() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.directDeps = nil
}

// RemoveReverseDep marks one reverse dep for removal. The removal is
// batched; it has no visible effect until ConsolidateReverseDeps applies it.
func (e *Entry) RemoveReverseDep(k gkey.Key) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pendingRemovals = append(e.pendingRemovals, k)
}

// ConsolidateReverseDeps applies every batched RemoveReverseDep call and
// clears the batch. It is a no-op if nothing is pending, but MUST be called
// after any non-empty batch before reverseDeps is read again elsewhere,
// matching the spec's consolidation contract.
func (e *Entry) ConsolidateReverseDeps() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.pendingRemovals) == 0 {
		return
	}
	for _, k := range e.pendingRemovals {
		delete(e.reverseDeps, k)
	}
	e.pendingRemovals = e.pendingRemovals[:0]
}
