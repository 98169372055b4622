// Package cache holds successful listing responses for the lifetime of a
// filter set.
package cache

import (
	"sync"

	"listingview/internal/domain"
	"listingview/internal/querycodec"
)

// Cache maps query keys to immutable pages. Every Clear starts a new epoch;
// a Put tagged with an older epoch belongs to a filter set that has since
// been invalidated and is discarded.
type Cache struct {
	mu      sync.RWMutex
	entries map[querycodec.Key]*domain.Page
	epoch   uint64
}

// New creates an empty cache
func New() *Cache {
	return &Cache{entries: make(map[querycodec.Key]*domain.Page)}
}

// Get returns the page stored under key
func (c *Cache) Get(key querycodec.Key) (*domain.Page, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.entries[key]
	return p, ok
}

// Has reports whether key is stored
func (c *Cache) Has(key querycodec.Key) bool {
	_, ok := c.Get(key)
	return ok
}

// Put stores page under key if epoch is still current. Existing entries are
// never overwritten.
func (c *Cache) Put(key querycodec.Key, page *domain.Page, epoch uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if epoch != c.epoch {
		return false
	}
	if _, exists := c.entries[key]; exists {
		return false
	}
	c.entries[key] = page
	return true
}

// Epoch returns the current epoch; capture it when a request is issued
func (c *Cache) Epoch() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.epoch
}

// Clear drops every entry and starts a new epoch
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[querycodec.Key]*domain.Page)
	c.epoch++
}

// Len returns the number of stored entries
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
