// Package focus implements a graph-focusing garbage collector for a
// persistent, in-memory build-dependency graph: given a set of root keys
// and a set of active-directory leaf keys, it prunes the graph down to the
// minimum subgraph that still supports correct incremental rebuilds from
// those leaves, while retaining enough filesystem-witness nodes for an
// external checker to detect changes outside them.
//
// The work is organized under:
//
//	gkey/       — the canonical Key type and its opaque Value variants
//	graph/      — the Graph Handle and Node Entry, the graph being pruned
//	gset/       — sharded concurrent key-sets with atomic insert-if-absent
//	gpool/      — the bounded-parallelism worker pool mark/sweep run on
//	mark/       — the upward mark phase and its downward verification pass
//	sweep/      — the parallel retain/flatten/delete rewrite
//	focuslog/   — structured logging and timed profiling regions
//	actioncache/ — the action-cache collaborator interface and an in-memory one
//
// The package's own files (this one plus focus.go, options.go, errors.go,
// result.go, dryrun.go) wire those pieces behind the single entry point, Focus.
package focus
