package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore stores artifacts in Redis, so that several machines can share
// them.
//
// Key schema:
//
//	ynamazon:{name}:{key} - string value containing the JSON artifact
//
// Entries expire after TTL. Freshness is still decided by the artifact's
// created timestamp; the TTL only reclaims memory.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore connects to addr and checks connectivity.
func NewRedisStore(ctx context.Context, addr string, ttl time.Duration) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return &RedisStore{rdb: rdb, ttl: ttl}, nil
}

func redisKey(name, key string) string { return "ynamazon:" + name + ":" + key }

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context, name, key string) ([]byte, error) {
	data, err := s.rdb.Get(ctx, redisKey(name, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis: get %s: %w", name, err)
	}
	return data, nil
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, name, key string, data []byte) error {
	if err := s.rdb.Set(ctx, redisKey(name, key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", name, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *RedisStore) Close() error { return s.rdb.Close() }

// Compile-time interface checks.
var (
	_ Store = (*RedisStore)(nil)
	_ Store = (*FileStore)(nil)
)
