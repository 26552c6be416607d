package cache

import (
	"sync"
	"time"
)

// Cache is a small in-memory TTL cache. It exists to absorb bursts of
// requests for the same video; the pipeline is correct without it.
// Concurrent writes race benignly, last write wins.
type Cache[T any] struct {
	mu   sync.RWMutex
	data map[string]entry[T]
}

type entry[T any] struct {
	value T
	exp   time.Time
}

// New returns an empty cache instance.
func New[T any]() *Cache[T] {
	return &Cache[T]{data: make(map[string]entry[T])}
}

// Get returns the cached value or false if absent/expired. Expired entries
// are evicted so the map does not grow with dead keys.
func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T

	c.mu.RLock()
	item, ok := c.data[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if time.Now().After(item.exp) {
		c.mu.Lock()
		// Recheck under the write lock; a fresh value may have landed.
		if cur, ok := c.data[key]; ok && time.Now().After(cur.exp) {
			delete(c.data, key)
		}
		c.mu.Unlock()
		return zero, false
	}
	return item.value, true
}

// Set stores a value with the provided TTL.
func (c *Cache[T]) Set(key string, value T, ttl time.Duration) {
	c.mu.Lock()
	c.data[key] = entry[T]{value: value, exp: time.Now().Add(ttl)}
	c.mu.Unlock()
}
