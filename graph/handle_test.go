package graph_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/focusgc/focusgc/gkey"
	"github.com/focusgc/focusgc/gpool"
	"github.com/focusgc/focusgc/graph"
)

func TestHandle_GetPutRemove(t *testing.T) {
	h := graph.NewHandle()
	k := gkey.New("k")

	_, ok := h.Get(k)
	assert.False(t, ok)

	h.Put(k, graph.NewEntry(graph.Done, nil, nil, nil))
	e, ok := h.Get(k)
	assert.True(t, ok)
	assert.NotNil(t, e)
	assert.Equal(t, 1, h.Len())

	h.Remove(k)
	_, ok = h.Get(k)
	assert.False(t, ok)
	assert.Equal(t, 0, h.Len())

	// Remove is idempotent.
	h.Remove(k)
}

func TestHandle_Keys_Sorted(t *testing.T) {
	h := graph.NewHandle()
	for _, id := range []string{"c", "a", "b"} {
		h.Put(gkey.New(id), graph.NewEntry(graph.Done, nil, nil, nil))
	}

	keys := h.Keys()
	assert.Len(t, keys, 3)
	assert.True(t, keys[0].Less(keys[1]))
	assert.True(t, keys[1].Less(keys[2]))
}

func TestHandle_ParallelForEach_VisitsEveryNodeExactlyOnce(t *testing.T) {
	h := graph.NewHandle()
	const n = 300
	for i := 0; i < n; i++ {
		h.Put(gkey.NewFileState(fmt.Sprintf("node-%d", i)), graph.NewEntry(graph.Done, nil, nil, nil))
	}

	pool := gpool.New(context.Background(), 8)
	defer pool.Close()

	var visits sync.Map
	var total atomic.Int32
	h.ParallelForEach(pool, func(k gkey.Key, e *graph.Entry) error {
		_, loaded := visits.LoadOrStore(k, struct{}{})
		assert.False(t, loaded, "node visited twice: %s", k)
		total.Add(1)
		return nil
	})

	assert.NoError(t, pool.Wait())
	assert.EqualValues(t, n, total.Load())
}

func TestHandle_Shrink_PreservesContent(t *testing.T) {
	h := graph.NewHandle()
	k1, k2 := gkey.New("a"), gkey.New("b")
	h.Put(k1, graph.NewEntry(graph.Done, nil, nil, nil))
	h.Put(k2, graph.NewEntry(graph.Done, nil, nil, nil))
	h.Remove(k1)

	h.Shrink()

	assert.Equal(t, 1, h.Len())
	_, ok := h.Get(k2)
	assert.True(t, ok)
}
