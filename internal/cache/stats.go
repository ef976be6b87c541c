package cache

import (
	"context"
	"sync/atomic"
	"time"
)

// Counting wraps a Store with hit/miss counters.
type Counting struct {
	Store
	hits, misses, sets, evictions, errors uint64
}

type StatsSnapshot struct {
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	Sets      uint64  `json:"sets"`
	Evictions uint64  `json:"evictions"`
	Errors    uint64  `json:"errors"`
	HitRate   float64 `json:"hit_rate"`
}

func NewCounting(store Store) *Counting {
	return &Counting{Store: store}
}

func (c *Counting) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	data, ok, err := c.Store.Get(ctx, key)
	switch {
	case err != nil:
		atomic.AddUint64(&c.errors, 1)
	case ok:
		atomic.AddUint64(&c.hits, 1)
	default:
		atomic.AddUint64(&c.misses, 1)
	}
	return data, ok, err
}

func (c *Counting) Set(ctx context.Context, key Key, value []byte, ttl time.Duration) error {
	err := c.Store.Set(ctx, key, value, ttl)
	if err != nil {
		atomic.AddUint64(&c.errors, 1)
	} else {
		atomic.AddUint64(&c.sets, 1)
	}
	return err
}

func (c *Counting) DeletePrefix(ctx context.Context, prefix Key) (int, error) {
	n, err := c.Store.DeletePrefix(ctx, prefix)
	if err != nil {
		atomic.AddUint64(&c.errors, 1)
	}
	atomic.AddUint64(&c.evictions, uint64(n))
	return n, err
}

func (c *Counting) Stats() StatsSnapshot {
	hits := atomic.LoadUint64(&c.hits)
	misses := atomic.LoadUint64(&c.misses)
	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total) * 100
	}
	return StatsSnapshot{
		Hits:      hits,
		Misses:    misses,
		Sets:      atomic.LoadUint64(&c.sets),
		Evictions: atomic.LoadUint64(&c.evictions),
		Errors:    atomic.LoadUint64(&c.errors),
		HitRate:   rate,
	}
}

// Unwrap returns the wrapped store, e.g. to reach SQLStore.Purge.
func (c *Counting) Unwrap() Store {
	return c.Store
}
