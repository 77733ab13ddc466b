package repository

import (
	"context"
	"sync"
	"time"

	"github.com/spoilerfree/gei/internal/domain/model"
	"github.com/spoilerfree/gei/pkg/metrics"
)

// TTLPolicy decides the lifetime of a cached series per key. Injected by
// the owner of the cache; there is no hidden global lifetime.
type TTLPolicy func(key string) time.Duration

// defaultSeriesTTL keeps a fetched series around long enough for retried
// submissions of the same game.
const defaultSeriesTTL = 30 * time.Minute

type cacheEntry struct {
	series    []model.ProbabilitySample
	expiresAt time.Time
}

// SeriesCache is an explicit key to probability-series cache with an
// injected lifetime policy. It is owned by the caller that populates it;
// nothing in the engine knows it exists.
type SeriesCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     TTLPolicy
	now     func() time.Time
}

// NewSeriesCache creates a series cache with configuration options.
func NewSeriesCache(opts ...CacheOption) *SeriesCache {
	c := &SeriesCache{
		entries: make(map[string]cacheEntry),
		ttl:     func(string) time.Duration { return defaultSeriesTTL },
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Put stores a series under key with the policy-decided lifetime.
func (c *SeriesCache) Put(_ context.Context, key string, series []model.ProbabilitySample) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{
		series:    series,
		expiresAt: c.now().Add(c.ttl(key)),
	}
}

// Get returns the cached series for key, if present and not expired.
func (c *SeriesCache) Get(_ context.Context, key string) ([]model.ProbabilitySample, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().After(entry.expiresAt) {
		metrics.RecordSeriesCacheMiss()
		return nil, false
	}
	metrics.RecordSeriesCacheHit()
	return entry.series, true
}

// Purge drops expired entries and returns how many were removed.
func (c *SeriesCache) Purge(_ context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	removed := 0
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of entries, including not-yet-purged expired ones.
func (c *SeriesCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
