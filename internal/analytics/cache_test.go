package analytics

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultCache(t *testing.T) {
	cache := NewResultCache()

	_, ok := cache.Get("missing")
	assert.False(t, ok)

	rows := []ShareRow{{Year: 2020, Category: "remote", Count: 1, Share: 100}}
	cache.Set(CacheKey("shares", "work_mode"), rows)

	got, ok := cache.Get(CacheKey("shares", "work_mode"))
	require.True(t, ok)
	assert.Equal(t, rows, got)
	assert.Equal(t, 1, cache.Len())
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "shares|languages|2021", CacheKey("shares", "languages", "2021"))
	assert.NotEqual(t, CacheKey("a", "b"), CacheKey("a", "c"))
}

func TestResultCache_ConcurrentAccess(t *testing.T) {
	cache := NewResultCache()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		key := CacheKey("op", fmt.Sprintf("%d", i%5))
		go func(k string, v int) {
			defer wg.Done()
			cache.Set(k, v)
		}(key, i)
		go func(k string) {
			defer wg.Done()
			cache.Get(k)
		}(key)
	}
	wg.Wait()

	assert.Equal(t, 5, cache.Len())
}
