// ============================================================================
// mIDE - Front-end for a small teaching language
// ============================================================================
//
// Package:     cache
// Description: Thread-safe in-memory cache with TTL and size bound
// Author:      Mike Stoffels
// Created:     2026-10-16
// License:     MIT
// ============================================================================

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// entry is a cached value with expiration
type entry[V any] struct {
	value      V
	expiration time.Time
	touched    time.Time
}

func (e *entry[V]) expired(now time.Time) bool {
	return !e.expiration.IsZero() && now.After(e.expiration)
}

// Cache is a thread-safe in-memory cache with TTL support. When full, the
// least recently used entry is evicted.
type Cache[V any] struct {
	mu       sync.Mutex
	items    map[string]*entry[V]
	maxItems int
	ttl      time.Duration
	now      func() time.Time

	hits   int64
	misses int64

	stop     chan struct{}
	stopOnce sync.Once
}

// Config holds cache configuration
type Config struct {
	MaxItems int
	TTL      time.Duration // zero keeps entries until evicted
	// CleanupInterval controls the expiry sweep; zero disables it
	CleanupInterval time.Duration
}

// DefaultConfig returns default cache configuration
func DefaultConfig() Config {
	return Config{
		MaxItems:        256,
		TTL:             10 * time.Minute,
		CleanupInterval: time.Minute,
	}
}

// New creates a new cache. Call Close to stop the cleanup goroutine.
func New[V any](cfg Config) *Cache[V] {
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = DefaultConfig().MaxItems
	}

	c := &Cache[V]{
		items:    make(map[string]*entry[V]),
		maxItems: cfg.MaxItems,
		ttl:      cfg.TTL,
		now:      time.Now,
		stop:     make(chan struct{}),
	}

	if cfg.CleanupInterval > 0 {
		go c.cleanupLoop(cfg.CleanupInterval)
	}
	return c
}

// Get retrieves a value from the cache
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	e, ok := c.items[key]
	if ok && e.expired(now) {
		delete(c.items, key)
		ok = false
	}
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}

	e.touched = now
	c.hits++
	return e.value, true
}

// Set stores a value with the default TTL
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxItems {
		c.evictLeastRecent()
	}

	var exp time.Time
	if c.ttl > 0 {
		exp = now.Add(c.ttl)
	}
	c.items[key] = &entry[V]{value: value, expiration: exp, touched: now}
}

// GetOrCompute returns the cached value for key or computes and stores it
func (c *Cache[V]) GetOrCompute(key string, fn func() V) (V, bool) {
	if v, ok := c.Get(key); ok {
		return v, true
	}
	v := fn()
	c.Set(key, v)
	return v, false
}

// Delete removes a value from the cache
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Clear removes all items from the cache
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*entry[V])
}

// Size returns the number of items in the cache
func (c *Cache[V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns hit and miss counts and the hit rate in percent
func (c *Cache[V]) Stats() (hits, misses int64, hitRate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	hits, misses = c.hits, c.misses
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	return
}

// Close stops the cleanup goroutine
func (c *Cache[V]) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// evictLeastRecent must be called with the lock held
func (c *Cache[V]) evictLeastRecent() {
	var oldestKey string
	var oldest time.Time
	for key, e := range c.items {
		if oldestKey == "" || e.touched.Before(oldest) {
			oldestKey, oldest = key, e.touched
		}
	}
	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}

func (c *Cache[V]) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

// cleanup removes all expired entries
func (c *Cache[V]) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.items {
		if e.expired(now) {
			delete(c.items, key)
		}
	}
}

// SourceKey derives a cache key from program text
func SourceKey(source string) string {
	hash := sha256.Sum256([]byte(source))
	return hex.EncodeToString(hash[:])
}
