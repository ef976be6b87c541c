// Package cache stores remote API responses keyed by ordered tuples and
// evicts whole resource families by key prefix.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/logger"
	"storefront/internal/models"
)

var ErrUnknownDriver = errors.New("unknown cache driver")

// Store is implemented by the memory, Redis and SQL backends. A ttl of zero
// means the entry does not expire.
type Store interface {
	Get(ctx context.Context, key Key) ([]byte, bool, error)
	Set(ctx context.Context, key Key, value []byte, ttl time.Duration) error
	// DeletePrefix removes key prefix itself and every key below it.
	DeletePrefix(ctx context.Context, prefix Key) (int, error)
	Close() error
}

// New builds the store selected by CACHE_DRIVER, wrapped with counters.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Counting, error) {
	var store Store

	switch cfg.CacheDriver {
	case "memory", "":
		store = NewMemoryStore()
	case "redis":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		store = NewRedisStore(client, cfg.CachePrefix)
	case "sql":
		db, err := database.New(cfg.DatabaseURL, &models.CacheEntry{})
		if err != nil {
			return nil, err
		}
		store = NewSQLStore(db)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.CacheDriver)
	}

	log.Info("Cache store ready (driver=%s)", cfg.CacheDriver)
	return NewCounting(store), nil
}
