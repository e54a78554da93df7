package memocache

import (
	"strings"
	"sync"
	"time"
)

const (
	// DefaultTTL is how long an entry stays valid after it is stored.
	DefaultTTL = time.Hour
	// DefaultMaxEntries bounds the cache size. Storing into a full cache
	// evicts the oldest entry first.
	DefaultMaxEntries = 20
)

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Cache is a thread-safe bounded TTL cache keyed by string.
type Cache[V any] struct {
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	mu      sync.Mutex
	entries map[string]entry[V]
}

// Option customizes cache construction.
type Option[V any] func(*Cache[V])

// WithTTL overrides the entry lifetime.
func WithTTL[V any](ttl time.Duration) Option[V] {
	return func(c *Cache[V]) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithMaxEntries overrides the entry cap.
func WithMaxEntries[V any](n int) Option[V] {
	return func(c *Cache[V]) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// WithClock overrides the time source used for expiry and eviction ordering.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *Cache[V]) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a cache with the default TTL and size bound.
func New[V any](opts ...Option[V]) *Cache[V] {
	c := &Cache[V]{
		ttl:        DefaultTTL,
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
		entries:    make(map[string]entry[V]),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value for key if present and not expired. Expired
// entries are removed on access.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	key = strings.TrimSpace(key)
	if key == "" {
		return zero, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		delete(c.entries, key)
		return zero, false
	}
	return e.value, true
}

// Store adds or replaces the value for key. Expired entries are purged on
// every write; when the cache is still at capacity and key is not already
// present, the oldest stored entry is evicted first.
func (c *Cache[V]) Store(key string, value V) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.purgeExpiredLocked()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.entries[key] = entry[V]{value: value, storedAt: c.now()}
}

// Invalidate removes the entry for key if present.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, strings.TrimSpace(key))
}

// Clear removes all entries.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
}

// Len returns the number of stored entries, including any not yet observed
// as expired.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[V]) purgeExpiredLocked() {
	now := c.now()
	for key, e := range c.entries {
		if now.Sub(e.storedAt) > c.ttl {
			delete(c.entries, key)
		}
	}
}

func (c *Cache[V]) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for key, e := range c.entries {
		if first || e.storedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = e.storedAt
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}
