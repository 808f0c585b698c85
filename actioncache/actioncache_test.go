package actioncache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/focusgc/focusgc/actioncache"
)

func TestInMemory_PutContainsRemove(t *testing.T) {
	c := actioncache.NewInMemory(8)

	assert.False(t, c.Contains("out/a"))
	c.Put("out/a")
	assert.True(t, c.Contains("out/a"))

	assert.NoError(t, c.Remove(context.Background(), "out/a"))
	assert.False(t, c.Contains("out/a"))

	// Removing an absent path is not an error.
	assert.NoError(t, c.Remove(context.Background(), "out/never-added"))
}

func TestInMemory_EvictsPastCapacity(t *testing.T) {
	c := actioncache.NewInMemory(2)
	c.Put("out/a")
	c.Put("out/b")
	c.Put("out/c") // evicts the LRU entry, "out/a"

	assert.False(t, c.Contains("out/a"))
	assert.True(t, c.Contains("out/b"))
	assert.True(t, c.Contains("out/c"))
}

func TestNewInMemory_PanicsOnNonPositiveCapacity(t *testing.T) {
	assert.Panics(t, func() { actioncache.NewInMemory(0) })
}
