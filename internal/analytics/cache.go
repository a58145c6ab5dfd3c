package analytics

import (
	"strings"
	"sync"
)

// ResultCache memoizes aggregation results keyed by their input
// parameters. It is safe for concurrent readers; entries are only ever
// added, never updated, and the cache is invalidated by discarding it
// together with the dataset it was computed from (a full reload means
// a fresh cache).
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]interface{}
}

// NewResultCache creates an empty result cache
func NewResultCache() *ResultCache {
	return &ResultCache{
		entries: make(map[string]interface{}),
	}
}

// CacheKey joins aggregation parameters into a stable cache key
func CacheKey(parts ...string) string {
	return strings.Join(parts, "|")
}

// Get returns the cached result for the key, if present
func (c *ResultCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.entries[key]
	return v, ok
}

// Set stores a result under the key
func (c *ResultCache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = value
}

// Len returns the number of cached results
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
