package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares the cache between gateway replicas.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) fullKey(key Key) string {
	return s.prefix + key.String()
}

func (s *RedisStore) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.fullKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get error: %w", err)
	}
	return data, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key Key, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.fullKey(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}
	return nil
}

// DeletePrefix deletes the exact key, then SCANs for children. Key parts are
// path-escaped, so the only glob character in the pattern is the trailing '*'.
func (s *RedisStore) DeletePrefix(ctx context.Context, prefix Key) (int, error) {
	exact := s.fullKey(prefix)
	pattern := exact + "/*"
	if len(prefix) == 0 {
		pattern = s.prefix + "*"
	}

	deleted, err := s.client.Del(ctx, exact).Result()
	if err != nil {
		return 0, fmt.Errorf("cache delete error: %w", err)
	}

	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return int(deleted), fmt.Errorf("cache scan error: %w", err)
		}
		if len(keys) > 0 {
			n, err := s.client.Del(ctx, keys...).Result()
			if err != nil {
				return int(deleted), fmt.Errorf("cache delete error: %w", err)
			}
			deleted += n
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return int(deleted), nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
