// Package cache provides the keyed LRU cache behind the texture cache.
//
// Entries are whole derived buffers: they are replaced, never updated in
// place, so readers can keep a value after it is evicted.
package cache

import "sync"

// Cache is a thread-safe LRU cache with a soft limit.
// When the cache exceeds its limit, the least recently used entries are evicted.
//
// Cache must not be copied after creation (has mutex).
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*entry[V]
	limit   int
	tick    int64 // monotonic access counter

	hits   uint64
	misses uint64
}

type entry[V any] struct {
	value V
	atime int64
}

// Stats reports cache usage.
type Stats struct {
	Len    int
	Limit  int
	Hits   uint64
	Misses uint64
}

// New creates a cache holding at most limit entries.
// A limit of 0 means unlimited.
func New[K comparable, V any](limit int) *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]*entry[V]),
		limit:   limit,
	}
}

// Get returns the value stored under key.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.tick++
	e.atime = c.tick
	return e.value, true
}

// Peek returns the value stored under key without touching recency or
// counters.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, evicting old entries when over the limit.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick++
	c.entries[key] = &entry[V]{value: value, atime: c.tick}
	if c.limit > 0 && len(c.entries) > c.limit {
		c.evictOldest()
	}
}

// Delete removes key. Returns true if an entry was removed.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		delete(c.entries, key)
		return true
	}
	return false
}

// Clear drops every entry.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*entry[V])
	c.tick = 0
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Keys returns the current keys in no particular order.
func (c *Cache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]K, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}

// Stats returns a snapshot of cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Len: len(c.entries), Limit: c.limit, Hits: c.hits, Misses: c.misses}
}

// evictOldest removes least recently used entries until the cache is back
// under its limit. Caller must hold c.mu.
func (c *Cache[K, V]) evictOldest() {
	for len(c.entries) > c.limit {
		var (
			oldestKey K
			oldest    int64 = -1
		)
		for k, e := range c.entries {
			if oldest < 0 || e.atime < oldest {
				oldestKey, oldest = k, e.atime
			}
		}
		delete(c.entries, oldestKey)
	}
}
