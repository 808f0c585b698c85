// Package actioncache defines the ActionCache collaborator the spec treats
// as an opaque external store, plus an in-memory reference implementation
// for tests and examples (not intended as the production cache -- a real
// deployment's action cache is a separate, externally-owned service, per
// the spec's "deliberately out of scope" list).
package actioncache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ActionCache is the external, opaque key-value store the sweep phase
// evicts from when it deletes a node carrying action outputs. Remove must
// be safe for concurrent calls from multiple sweep goroutines.
type ActionCache interface {
	// Remove evicts the cache entry for outputExecPath, if any. Removing an
	// absent path is not an error.
	Remove(ctx context.Context, outputExecPath string) error
}

// InMemory is a small ActionCache backed by an LRU cache, useful for tests
// and for examples that need a concrete, concurrency-safe implementation
// without standing up a real cache service.
type InMemory struct {
	cache *lru.Cache[string, struct{}]
}

// NewInMemory returns an InMemory cache holding up to capacity entries.
func NewInMemory(capacity int) *InMemory {
	c, err := lru.New[string, struct{}](capacity)
	if err != nil {
		// Only returns an error for capacity <= 0, which is a programmer
		// error at construction time, not a runtime condition callers
		// should need to handle.
		panic("actioncache: " + err.Error())
	}
	return &InMemory{cache: c}
}

// Put records outputExecPath as present, for tests that want to observe
// eviction.
func (m *InMemory) Put(outputExecPath string) {
	m.cache.Add(outputExecPath, struct{}{})
}

// Contains reports whether outputExecPath is currently cached.
func (m *InMemory) Contains(outputExecPath string) bool {
	return m.cache.Contains(outputExecPath)
}

// Remove implements ActionCache.
func (m *InMemory) Remove(_ context.Context, outputExecPath string) error {
	m.cache.Remove(outputExecPath)
	return nil
}
