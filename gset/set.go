// Package gset provides the one concurrency primitive the spec calls
// "required": an atomic insert-returns-novelty operation on a shared set of
// keys, plus the complementary try-remove used by CheckDependencies
// demotion. It is the same sharded-mutex shape as graph.Handle, generalized
// from the corpus's single-mutex map (core.Graph.vertices) for the same
// reason: kept-rdeps, kept-deps, and verification-set-seen are all hot,
// highly-contended structures during mark, and the spec explicitly warns
// that naive "contains then insert" is not an acceptable emulation.
package gset

import (
	"hash/fnv"
	"sort"
	"sync"

	"github.com/focusgc/focusgc/gkey"
)

const shardCount = 256

type shard struct {
	mu   sync.Mutex
	keys map[gkey.Key]struct{}
}

// Set is a sharded, concurrency-safe set of gkey.Key.
type Set struct {
	shards [shardCount]*shard
}

// New returns an empty Set.
func New() *Set {
	s := &Set{}
	for i := range s.shards {
		s.shards[i] = &shard{keys: make(map[gkey.Key]struct{})}
	}
	return s
}

// NewSeeded returns a Set pre-populated with the given keys.
func NewSeeded(keys []gkey.Key) *Set {
	s := New()
	for _, k := range keys {
		s.InsertIfAbsent(k)
	}
	return s
}

func (s *Set) shardFor(k gkey.Key) *shard {
	f := fnv.New64a()
	_, _ = f.Write([]byte(k.Canonical))
	return s.shards[f.Sum64()%uint64(shardCount)]
}

// InsertIfAbsent atomically inserts k and reports whether it was newly
// inserted (true) or already present (false). This is the primitive the
// mark phase relies on to enqueue a visitor for a key at most once, no
// matter how many goroutines race to discover it simultaneously.
func (s *Set) InsertIfAbsent(k gkey.Key) (inserted bool) {
	sh := s.shardFor(k)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.keys[k]; ok {
		return false
	}
	sh.keys[k] = struct{}{}
	return true
}

// Contains reports whether k is currently a member.
func (s *Set) Contains(k gkey.Key) bool {
	sh := s.shardFor(k)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	_, ok := sh.keys[k]
	return ok
}

// Remove deletes k if present. Safe to race with concurrent InsertIfAbsent
// attempts on the same key -- the shard mutex serializes them -- which is
// what makes CheckDependencies demotion (insert speculatively during mark,
// then remove if the node turns out to be in CheckDependencies) correct
// under contention rather than merely "usually correct".
func (s *Set) Remove(k gkey.Key) {
	sh := s.shardFor(k)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.keys, k)
}

// Len returns the current member count.
func (s *Set) Len() int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		total += len(sh.keys)
		sh.mu.Unlock()
	}
	return total
}

// Freeze returns an immutable snapshot of the set's current membership.
func (s *Set) Freeze() map[gkey.Key]struct{} {
	out := make(map[gkey.Key]struct{}, s.Len())
	for _, sh := range s.shards {
		sh.mu.Lock()
		for k := range sh.keys {
			out[k] = struct{}{}
		}
		sh.mu.Unlock()
	}
	return out
}

// Keys returns a sorted snapshot of the set's members, for deterministic
// diagnostics and tests.
func (s *Set) Keys() []gkey.Key {
	out := make([]gkey.Key, 0, s.Len())
	for k := range s.Freeze() {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Subtract removes every member of other from s, in place. Used to apply
// the post-mark "kept_deps -= kept_rdeps" and "verification_set -=
// kept_deps" steps (invariants 6 and 7).
func (s *Set) Subtract(other *Set) {
	for _, k := range other.Keys() {
		s.Remove(k)
	}
}
