package symcore_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/symcore"
)

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := symcore.NewCache(2)
	calls := 0
	compute := func(v string) func() interface{} {
		return func() interface{} { calls++; return v }
	}

	assert.Equal(t, "x", c.Memo("op", x, compute("x")))
	assert.Equal(t, "y", c.Memo("op", y, compute("y")))
	assert.Equal(t, "x", c.Memo("op", x, compute("stale")))
	assert.Equal(t, "z", c.Memo("op", z, compute("z")))
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, c.Len())

	// y was the least recently used entry.
	assert.Equal(t, "y2", c.Memo("op", y, compute("y2")))
	assert.Equal(t, 4, calls)

	st := c.Stats()
	assert.Equal(t, uint64(1), st.Hits)
	assert.Equal(t, uint64(4), st.Misses)
	assert.Equal(t, uint64(2), st.Evictions)
	assert.Equal(t, 2, st.Size)
}

func TestCache_KeysIncludeOperation(t *testing.T) {
	c := symcore.NewCache(0)
	assert.Equal(t, 1, c.Memo("a", x, func() interface{} { return 1 }))
	assert.Equal(t, 2, c.Memo("b", x, func() interface{} { return 2 }))
	assert.Equal(t, 2, c.Len())
}

func TestCache_UnboundedCapacity(t *testing.T) {
	c := symcore.NewCache(0)
	for i := int64(0); i < 100; i++ {
		c.Memo("op", symcore.N(i), func() interface{} { return i })
	}
	assert.Equal(t, 100, c.Len())
	assert.Equal(t, uint64(0), c.Stats().Evictions)
}

func TestCache_ConcurrentMissesComputeOnce(t *testing.T) {
	c := symcore.NewCache(16)
	var calls atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := c.Memo("slow", x, func() interface{} {
				calls.Add(1)
				return "done"
			})
			assert.Equal(t, "done", v)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), calls.Load())
}

func TestCache_Purge(t *testing.T) {
	c := symcore.NewCache(4)
	c.Memo("op", x, func() interface{} { return 1 })
	c.Purge()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, uint64(1), c.Stats().Misses)
}

func TestCache_PurgeIsNotEviction(t *testing.T) {
	c := symcore.NewCache(1)
	one := func() interface{} { return 1 }
	c.Memo("op", x, one)
	c.Memo("op", y, one)
	require.Equal(t, uint64(1), c.Stats().Evictions)

	c.Purge()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, uint64(1), c.Stats().Evictions)

	c.Memo("op", z, one)
	c.Memo("op", x, one)
	st := c.Stats()
	assert.Equal(t, uint64(2), st.Evictions)
	assert.Equal(t, uint64(4), st.Misses)
	assert.Equal(t, 1, st.Size)
}

func TestSetDefaultCache(t *testing.T) {
	prev := symcore.DefaultCache()
	t.Cleanup(func() { symcore.SetDefaultCache(prev) })

	c := symcore.NewCache(8)
	symcore.SetDefaultCache(c)
	require.Same(t, c, symcore.DefaultCache())

	symcore.ErfTaylorTerm(5, x)
	assert.Positive(t, c.Len())

	symcore.SetDefaultCache(nil)
	assert.Equal(t, symcore.DefaultCacheCapacity, symcore.DefaultCache().Capacity())
}
