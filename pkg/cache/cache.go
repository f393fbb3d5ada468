package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// Entry wraps a cached value with its creation time. An entry is never
// served once now - CreatedAt exceeds the cache TTL.
type Entry[V any] struct {
	Value     V
	CreatedAt time.Time
}

// Cache is a bounded TTL cache safe for concurrent use. Expiry is checked
// lazily on read; EvictExpired exists for periodic sweeps. When the entry
// count exceeds the maximum, the oldest entries are dropped first (FIFO,
// which keeps batch eviction cheap).
type Cache[V any] struct {
	mu         sync.RWMutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]Entry[V]
	order      []string
	hits       uint64
	now        func() time.Time
}

func New[V any](ttl time.Duration, maxEntries int) *Cache[V] {
	if maxEntries <= 0 {
		maxEntries = 512
	}
	return &Cache[V]{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]Entry[V]),
		now:        time.Now,
	}
}

// Get returns the live value for key. Expired entries are removed on the spot.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.now().Sub(e.CreatedAt) > c.ttl {
		delete(c.entries, key)
		c.removeOrder(key)
		return zero, false
	}
	c.hits++
	return e.Value, true
}

// Set stores value under key. Writers racing on the same key are harmless:
// last writer wins and equal keys are expected to carry equivalent values.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = Entry[V]{Value: value, CreatedAt: c.now()}

	for len(c.entries) > c.maxEntries && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// removeOrder drops key's slot from the insertion order. Caller holds mu.
// The order slice must stay in step with the map: a stale slot would later
// evict a re-inserted live entry ahead of genuinely older ones.
func (c *Cache[V]) removeOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// EvictExpired removes every expired entry and returns how many were dropped.
func (c *Cache[V]) EvictExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	kept := c.order[:0]
	for _, key := range c.order {
		e, ok := c.entries[key]
		if !ok {
			continue
		}
		if c.now().Sub(e.CreatedAt) > c.ttl {
			delete(c.entries, key)
			evicted++
			continue
		}
		kept = append(kept, key)
	}
	c.order = kept
	return evicted
}

// Hits reports how many Get calls were served from a live entry.
func (c *Cache[V]) Hits() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits
}

func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// HashKey builds a stable cache key from its parts.
func HashKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
