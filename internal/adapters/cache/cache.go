// Package cache provides the in-memory TTL cache for aggregated
// eligibility results.
package cache

import (
	"hash/fnv"
	"sync"
	"time"

	"github.com/okian/varsity/pkg/metrics"
)

// Default cache configuration constants.
const (
	DefaultTTL        = 5 * time.Minute
	defaultMaxEntries = 1024
)

// entry holds one cached value with its expiry.
type entry struct {
	value     any
	expiresAt time.Time
}

// Cache is a fixed-capacity map with TTL-based lazy eviction. Expired
// entries are dropped when read or when room is needed, never by a sweeper.
// Last-write-wins on concurrent sets for the same key; values are derived
// deterministically from their inputs so either write is correct.
type Cache struct {
	mu         sync.RWMutex
	entries    map[uint64]entry
	ttl        time.Duration
	maxEntries int
	clock      func() time.Time
}

// Option applies a configuration option to the Cache.
type Option func(*Cache)

// WithTTL sets how long entries stay fresh.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithMaxEntries bounds the number of live entries.
func WithMaxEntries(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Cache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// New creates a cache with default configuration.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries:    make(map[uint64]entry),
		ttl:        DefaultTTL,
		maxEntries: defaultMaxEntries,
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the fresh value for a key. An expired entry is evicted on the
// spot and reported as a miss.
func (c *Cache) Get(key uint64) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		metrics.RecordCacheMiss()
		return nil, false
	}
	if c.clock().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; another Set may have refreshed it.
		if cur, still := c.entries[key]; still && c.clock().After(cur.expiresAt) {
			delete(c.entries, key)
			metrics.RecordCacheEviction()
		}
		c.mu.Unlock()
		metrics.RecordCacheMiss()
		return nil, false
	}

	metrics.RecordCacheHit()
	return e.value, true
}

// Set stores a value under a key with the configured TTL. When the cache is
// full, expired entries are reaped first; if none are expired an arbitrary
// entry gives way so writes always succeed.
func (c *Cache) Set(key uint64, value any) {
	now := c.clock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.reapExpired(now)
		if len(c.entries) >= c.maxEntries {
			for k := range c.entries {
				delete(c.entries, k)
				metrics.RecordCacheEviction()
				break
			}
		}
	}

	c.entries[key] = entry{value: value, expiresAt: now.Add(c.ttl)}
	metrics.UpdateCacheEntries(len(c.entries))
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.mu.Lock()
	c.entries = make(map[uint64]entry)
	c.mu.Unlock()
	metrics.UpdateCacheEntries(0)
}

// reapExpired removes expired entries. Caller holds the write lock.
func (c *Cache) reapExpired(now time.Time) {
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
			metrics.RecordCacheEviction()
		}
	}
}

// Key derives a deterministic cache key from its string parts with FNV-1a.
// Parts must already be in a canonical order.
func Key(parts ...string) uint64 {
	h := fnv.New64a()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}
