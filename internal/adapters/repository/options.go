package repository

import "time"

// Option applies a configuration option to the RankStore.
type Option func(*RankStore)

// WithShardCount sets the number of shards.
func WithShardCount(n int) Option {
	return func(s *RankStore) {
		if n > 0 {
			s.shardCount = n
		}
	}
}

// CacheOption applies a configuration option to the SeriesCache.
type CacheOption func(*SeriesCache)

// WithTTLPolicy sets the lifetime policy for cached entries.
func WithTTLPolicy(policy TTLPolicy) CacheOption {
	return func(c *SeriesCache) {
		if policy != nil {
			c.ttl = policy
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) CacheOption {
	return func(c *SeriesCache) {
		if now != nil {
			c.now = now
		}
	}
}
