package client

import (
	"sync"
	"time"
)

// cacheEntry wraps a cached response body with expiry and insertion order
// tracking.
type cacheEntry struct {
	body      []byte
	expiry    time.Time
	insertIdx int64
}

// responseCache caches read-only catalog responses (dataset and prompt
// listings) so repeated discovery calls within the TTL don't re-hit the
// backend. Keys are "method:path?query". Thread-safe with sync.RWMutex.
type responseCache struct {
	mu         sync.RWMutex
	items      map[string]cacheEntry
	ttl        time.Duration
	maxEntries int
	nextIdx    int64
}

// newResponseCache creates a cache with the given TTL and max entry count.
func newResponseCache(ttl time.Duration, maxEntries int) *responseCache {
	return &responseCache{
		items:      make(map[string]cacheEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

// get returns a cached body if found and not expired.
func (c *responseCache) get(key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if time.Now().After(e.expiry) {
		// Expired: remove lazily
		c.mu.Lock()
		if e2, ok2 := c.items[key]; ok2 && time.Now().After(e2.expiry) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return e.body, true
}

// set stores a body in the cache. Evicts the oldest entry if at capacity.
func (c *responseCache) set(key string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxEntries > 0 && len(c.items) >= c.maxEntries {
		if _, exists := c.items[key]; !exists {
			var oldestKey string
			oldestIdx := int64(-1)
			for k, e := range c.items {
				if oldestIdx == -1 || e.insertIdx < oldestIdx {
					oldestIdx = e.insertIdx
					oldestKey = k
				}
			}
			delete(c.items, oldestKey)
		}
	}

	c.items[key] = cacheEntry{
		body:      body,
		expiry:    time.Now().Add(c.ttl),
		insertIdx: c.nextIdx,
	}
	c.nextIdx++
}

// len returns the current entry count.
func (c *responseCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
