// Package cache provides thread-safe caching utilities with time-based expiration.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value   V
	expires time.Time
}

// TTLCache is a thread-safe cache whose entries expire individually ttl
// after they were stored. When maxEntries is positive, storing into a full
// cache first drops expired entries and then the entry closest to expiry.
type TTLCache[K comparable, V any] struct {
	mu         sync.RWMutex
	data       map[K]entry[V]
	ttl        time.Duration
	maxEntries int

	// now is replaced in tests.
	now func() time.Time
}

// New creates a TTLCache with the given TTL and no size bound.
func New[K comparable, V any](ttl time.Duration) *TTLCache[K, V] {
	return NewBounded[K, V](ttl, 0)
}

// NewBounded creates a TTLCache holding at most maxEntries values.
func NewBounded[K comparable, V any](ttl time.Duration, maxEntries int) *TTLCache[K, V] {
	return &TTLCache[K, V]{
		data:       make(map[K]entry[V]),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the value for key if present and not expired.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.data[key]
	if !ok || !c.now().Before(e.expires) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with a fresh TTL.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, value)
}

func (c *TTLCache[K, V]) setLocked(key K, value V) {
	now := c.now()
	if _, exists := c.data[key]; !exists && c.maxEntries > 0 && len(c.data) >= c.maxEntries {
		c.evictLocked(now)
	}
	c.data[key] = entry[V]{value: value, expires: now.Add(c.ttl)}
}

// evictLocked makes room for one entry. MUST be called with the write lock held.
func (c *TTLCache[K, V]) evictLocked(now time.Time) {
	var (
		oldestKey K
		oldest    time.Time
		found     bool
	)
	for k, e := range c.data {
		if !now.Before(e.expires) {
			delete(c.data, k)
			continue
		}
		if !found || e.expires.Before(oldest) {
			oldestKey, oldest, found = k, e.expires, true
		}
	}
	if found && len(c.data) >= c.maxEntries {
		delete(c.data, oldestKey)
	}
}

// GetOrLoad returns the cached value for key, calling load on a miss and
// caching its result. Errors from load are returned and not cached.
// Concurrent misses on the same key may each call load.
func (c *TTLCache[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := load()
	if err != nil {
		var zero V
		return zero, err
	}

	c.Set(key, v)
	return v, nil
}

// Delete removes key from the cache.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Invalidate clears all cached data.
func (c *TTLCache[K, V]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[K]entry[V])
}

// Len returns the number of stored entries, expired or not.
func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
