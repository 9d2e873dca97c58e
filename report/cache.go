package report

import (
	"sync"
	"time"

	"github.com/golang/groupcache/lru"

	"resource-planner/metrics"
	"resource-planner/models"
)

type cacheKey struct {
	rowID string
	view  models.ViewMode
	start time.Time
	end   time.Time
}

// Cache is a bounded LRU of computed cells keyed by (row ID, period start,
// period end). It must be purged whenever the snapshot it was filled from
// changes.
type Cache struct {
	mu  sync.Mutex
	lru *lru.Cache
}

// NewCache returns a cache holding at most size cells. A size <= 0 disables
// caching.
func NewCache(size int) *Cache {
	if size <= 0 {
		return nil
	}
	return &Cache{lru: lru.New(size)}
}

func (c *Cache) get(k cacheKey) (Cell, bool) {
	if c == nil {
		return Cell{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.lru.Get(k)
	if !ok {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return Cell{}, false
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return v.(Cell), true
}

func (c *Cache) put(k cacheKey, cell Cell) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(k, cell)
}

// Len returns the number of cached cells.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Purge drops every cached cell.
func (c *Cache) Purge() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Clear()
}
