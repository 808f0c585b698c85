// Package graph holds the Graph Handle and Node Entry: thread-safe access
// to the evaluation graph the focuser prunes. It generalizes the single
// sync.RWMutex-guarded map the corpus's core.Graph uses for its vertex
// catalog into a sharded map, since the graphs this package targets are
// expected to hold gigabytes of state and must support full-hardware-
// concurrency iteration without serializing every Get behind one lock.
package graph

import (
	"context"
	"hash/fnv"
	"sort"
	"sync"

	"github.com/focusgc/focusgc/gkey"
	"github.com/focusgc/focusgc/gpool"
)

// shardCount is fixed rather than configurable: it only needs to be large
// enough that lock contention across goroutines is negligible, not tuned
// per graph size.
const shardCount = 256

type shard struct {
	mu    sync.RWMutex
	nodes map[gkey.Key]*Entry
}

// Handle is thread-safe access to nodes by key, with bulk parallel
// iteration, targeted removal, and post-deletion compaction.
//
// Ownership: Handle exclusively owns the Entry values it holds; callers
// borrow them for read and, during ParallelForEach, for scoped mutation of
// the entry currently being visited.
type Handle struct {
	shards [shardCount]*shard
}

// NewHandle returns an empty Handle.
func NewHandle() *Handle {
	h := &Handle{}
	for i := range h.shards {
		h.shards[i] = &shard{nodes: make(map[gkey.Key]*Entry)}
	}
	return h
}

func (h *Handle) shardFor(k gkey.Key) *shard {
	f := fnv.New64a()
	_, _ = f.Write([]byte(k.Canonical))
	return h.shards[f.Sum64()%uint64(shardCount)]
}

// Get returns the entry for k, if present. O(1), concurrent-safe.
func (h *Handle) Get(k gkey.Key) (*Entry, bool) {
	s := h.shardFor(k)
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.nodes[k]
	return e, ok
}

// Put inserts or replaces the entry for k. Put is not part of the
// focuser's own vocabulary (the focuser never creates nodes), but the
// evaluation engine populating the graph -- and tests -- need a
// construction path.
func (h *Handle) Put(k gkey.Key, e *Entry) {
	s := h.shardFor(k)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes[k] = e
}

// Remove deletes the entry for k. Idempotent. Safe to call concurrently
// with other shards' traffic; safe for the current shard only when called
// on the node currently being visited by ParallelForEach, per the spec's
// concurrency model.
func (h *Handle) Remove(k gkey.Key) {
	s := h.shardFor(k)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nodes, k)
}

// Len returns the total number of entries across all shards.
func (h *Handle) Len() int {
	total := 0
	for _, s := range h.shards {
		s.mu.RLock()
		total += len(s.nodes)
		s.mu.RUnlock()
	}
	return total
}

// Keys returns every key currently present, sorted for deterministic
// diagnostics and golden tests.
func (h *Handle) Keys() []gkey.Key {
	out := make([]gkey.Key, 0, h.Len())
	for _, s := range h.shards {
		s.mu.RLock()
		for k := range s.nodes {
			out = append(out, k)
		}
		s.mu.RUnlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Shrink compacts every shard's map after bulk deletion. A Go map never
// shrinks its backing buckets on delete, so a shard that held many entries
// before a focus pass and few afterward would otherwise keep the old
// bucket array alive for its remaining lifetime; rebuilding it reclaims
// that memory. Not safe to call concurrently with Get/Remove on the same
// shard.
func (h *Handle) Shrink() {
	for _, s := range h.shards {
		s.mu.Lock()
		if len(s.nodes) == 0 {
			s.nodes = make(map[gkey.Key]*Entry)
		} else {
			fresh := make(map[gkey.Key]*Entry, len(s.nodes))
			for k, v := range s.nodes {
				fresh[k] = v
			}
			s.nodes = fresh
		}
		s.mu.Unlock()
	}
}

// Visitor is called once per node during ParallelForEach. It may mutate the
// visited entry and may call Handle.Remove on its own key; touching any
// other node is not supported by the concurrency model.
type Visitor func(k gkey.Key, e *Entry) error

// ParallelForEach submits one task per currently-present node to pool, in
// unspecified order, with parallelism bounded by the pool. It does not
// itself wait for completion; callers call pool.Wait() to await
// quiescence. Keys are snapshotted per shard before submission, so a
// Visitor calling Remove on the node it is visiting does not perturb the
// enumeration.
func (h *Handle) ParallelForEach(pool *gpool.Group, visit Visitor) {
	for _, s := range h.shards {
		s := s
		s.mu.RLock()
		keys := make([]gkey.Key, 0, len(s.nodes))
		for k := range s.nodes {
			keys = append(keys, k)
		}
		s.mu.RUnlock()

		for _, k := range keys {
			k := k
			pool.Go(func(ctx context.Context) error {
				e, ok := h.Get(k)
				if !ok {
					// Removed by a concurrent visitor of a different
					// shard's node before we got here (can only happen if
					// callers violate the single-node mutation contract);
					// nothing to visit.
					return nil
				}
				return visit(k, e)
			})
		}
	}
}
