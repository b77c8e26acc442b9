package pipeline

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache[int](2)

	c.put("a", 1)
	c.put("b", 2)
	n := c.put("c", 3) // evicts "a"

	assert.Equal(t, 2, n)
	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	v, ok := c.get("b")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestLRUCache_GetRefreshesRecency(t *testing.T) {
	c := newLRUCache[int](2)

	c.put("a", 1)
	c.put("b", 2)
	c.get("a")    // a is now most recent
	c.put("c", 3) // evicts b

	_, ok := c.get("b")
	assert.False(t, ok)
	_, ok = c.get("a")
	assert.True(t, ok)
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache[string](2)

	c.put("a", "old")
	n := c.put("a", "new")

	assert.Equal(t, 1, n)
	v, ok := c.get("a")
	require.True(t, ok)
	assert.Equal(t, "new", v)
}

func TestLRUCache_NonPositiveSize(t *testing.T) {
	c := newLRUCache[int](0)

	c.put("a", 1)
	c.put("b", 2)
	assert.Equal(t, 1, c.len())
}

func TestLRUCache_Concurrent(t *testing.T) {
	c := newLRUCache[int](50)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				key := fmt.Sprintf("%d-%d", i, j%60)
				c.put(key, j)
				c.get(key)
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, c.len(), 50)
}
