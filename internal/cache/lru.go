package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/healthshield-server/internal/store"
)

// LRUCache implements PageCache with an in-process LRU, the default for
// single-node deployments without Redis.
type LRUCache struct {
	cache      *lru.Cache
	ttl        time.Duration
	generation atomic.Int64
}

// lruEntry is one cached page with its expiry.
type lruEntry struct {
	page      *store.ReportPage
	expiresAt time.Time
}

// NewLRUCache creates a new in-process page cache.
func NewLRUCache(size int, ttl time.Duration) (*LRUCache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("creating LRU cache: %w", err)
	}
	return &LRUCache{cache: c, ttl: ttl}, nil
}

// GetPage returns a cached page, or false on a miss or expired entry.
func (c *LRUCache) GetPage(_ context.Context, page, perPage int) (*store.ReportPage, bool) {
	key := pageKey(c.generation.Load(), page, perPage)

	val, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}

	entry := val.(lruEntry)
	if time.Now().After(entry.expiresAt) {
		c.cache.Remove(key)
		return nil, false
	}
	return entry.page, true
}

// SetPage stores a page for the current generation.
func (c *LRUCache) SetPage(_ context.Context, page, perPage int, p *store.ReportPage) {
	key := pageKey(c.generation.Load(), page, perPage)
	c.cache.Add(key, lruEntry{
		page:      p,
		expiresAt: time.Now().Add(c.ttl),
	})
}

// Invalidate bumps the generation counter; stale entries age out of the
// LRU under capacity pressure.
func (c *LRUCache) Invalidate(_ context.Context) {
	c.generation.Add(1)
}

// Close releases cache resources.
func (c *LRUCache) Close() error {
	c.cache.Purge()
	return nil
}
