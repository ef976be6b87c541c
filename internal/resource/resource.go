// Package resource is the one fetch-and-cache abstraction behind every
// remote REST family: reads go through the cache with de-duplicated misses,
// writes evict the families they affect and report to a notification sink.
package resource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"storefront/internal/apiclient"
	"storefront/internal/cache"
	"storefront/internal/logger"
	"storefront/internal/notify"
)

// NoCache disables caching for a Query.
const NoCache time.Duration = -1

type Layer struct {
	client       *apiclient.Client
	store        cache.Store
	group        singleflight.Group
	defaultStale time.Duration
	logger       *logger.Logger

	// Generations per key root. A fetch that overlaps an Invalidate of its
	// family must not leave its response behind in the cache.
	mu    sync.Mutex
	gens  map[string]uint64
	epoch uint64
}

func NewLayer(client *apiclient.Client, store cache.Store, defaultStale time.Duration, logger *logger.Logger) *Layer {
	return &Layer{
		client:       client,
		store:        store,
		defaultStale: defaultStale,
		logger:       logger,
		gens:         make(map[string]uint64),
	}
}

func (l *Layer) generation(key cache.Key) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.epoch + l.gens[key[0]]
}

func (l *Layer) bump(prefix cache.Key) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(prefix) == 0 {
		l.epoch++
		return
	}
	l.gens[prefix[0]]++
}

// Query describes one cached read.
type Query struct {
	Key    cache.Key
	Path   string
	Params url.Values
	// StaleTime is how long a response is served from cache. Zero uses the
	// layer default; NoCache bypasses the cache.
	StaleTime time.Duration
}

// Mutation describes one write and the cache families it invalidates.
type Mutation struct {
	Method      string
	Path        string
	Body        interface{}
	Invalidates []cache.Key
	// Success is sent to the sink when non-empty. Failure is the fallback
	// error text when the remote error carries no message.
	Success string
	Failure string
}

// Fetch reads q through the cache. Concurrent misses for the same key share
// one remote call. Cache failures are logged and never fail the read.
func Fetch[T any](ctx context.Context, l *Layer, q Query) (T, error) {
	var out T

	raw, err := l.fetchRaw(ctx, q)
	if err != nil {
		return out, err
	}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("failed to decode %s: %w", q.Path, err)
	}
	return out, nil
}

func (l *Layer) fetchRaw(ctx context.Context, q Query) ([]byte, error) {
	stale := q.StaleTime
	if stale == 0 {
		stale = l.defaultStale
	}
	if stale < 0 || len(q.Key) == 0 {
		return l.get(ctx, q)
	}

	if data, ok, err := l.store.Get(ctx, q.Key); err != nil {
		l.logger.Warn("Cache error for %s: %v", q.Key, err)
	} else if ok {
		l.logger.Debug("Cache HIT for %s", q.Key)
		return data, nil
	}

	l.logger.Debug("Cache MISS for %s", q.Key)
	// The shared call outlives any single caller: it runs detached from the
	// first caller's cancellation, bounded by the client timeout, and every
	// caller stops waiting on its own ctx.
	ch := l.group.DoChan(q.Key.String(), func() (interface{}, error) {
		shared := context.WithoutCancel(ctx)
		gen := l.generation(q.Key)

		data, err := l.get(shared, q)
		if err != nil {
			return nil, err
		}
		l.cacheResult(shared, q.Key, data, stale, gen)
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// cacheResult caches data unless the key's family was invalidated since gen
// was read. The second check removes an entry written after a concurrent
// eviction already ran.
func (l *Layer) cacheResult(ctx context.Context, key cache.Key, data []byte, stale time.Duration, gen uint64) {
	if l.generation(key) != gen {
		l.logger.Debug("Skipping cache write for %s: invalidated during fetch", key)
		return
	}
	if err := l.store.Set(ctx, key, data, stale); err != nil {
		l.logger.Warn("Failed to cache %s: %v", key, err)
		return
	}
	if l.generation(key) != gen {
		if _, err := l.store.DeletePrefix(ctx, key); err != nil {
			l.logger.Warn("Failed to drop stale %s: %v", key, err)
		}
	}
}

func (l *Layer) get(ctx context.Context, q Query) ([]byte, error) {
	var raw json.RawMessage
	if err := l.client.Get(ctx, q.Path, q.Params, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Mutate performs m, then evicts every family in m.Invalidates. The sink gets
// the success text, or the remote error message on failure.
func Mutate[T any](ctx context.Context, l *Layer, sink notify.Sink, m Mutation) (T, error) {
	var out T
	if sink == nil {
		sink = notify.Discard
	}

	if err := l.client.Do(ctx, m.Method, m.Path, nil, m.Body, &out); err != nil {
		sink.Error(ErrorMessage(err, m.Failure))
		return out, err
	}

	l.Invalidate(ctx, m.Invalidates...)
	if m.Success != "" {
		sink.Success(m.Success)
	}
	return out, nil
}

// Invalidate evicts each key prefix. Failures are logged; a stale entry
// expires on its own.
func (l *Layer) Invalidate(ctx context.Context, prefixes ...cache.Key) int {
	total := 0
	for _, p := range prefixes {
		l.bump(p)
		n, err := l.store.DeletePrefix(ctx, p)
		if err != nil {
			l.logger.Error("Failed to invalidate %s: %v", p, err)
			continue
		}
		total += n
	}
	if len(prefixes) > 0 {
		l.logger.Debug("Invalidated %d cache entries under %v", total, prefixes)
	}
	return total
}

// ErrorMessage is the user-facing text for err.
func ErrorMessage(err error, fallback string) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if fallback != "" {
		return fallback
	}
	return err.Error()
}
