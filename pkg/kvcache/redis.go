package kvcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps entries in Redis so several processes can share cached
// definition text. Expiry is delegated to Redis, so Cleanup has nothing to
// do.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
	Prefix   string
}

// NewRedisStore connects to Redis and verifies the connection with PING.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Address, err)
	}
	return NewRedisStoreWithClient(client, cfg.Prefix), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Get implements Store.
func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %q: %w", key, err)
	}
	return value, true, nil
}

// Set implements Store.
func (r *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %q: %w", key, err)
	}
	return nil
}

// Delete implements Store.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// Cleanup implements Store. Redis expires keys itself.
func (r *RedisStore) Cleanup(ctx context.Context) (int, error) {
	return 0, nil
}

// Clear implements Store. Only keys carrying the store prefix are removed.
func (r *RedisStore) Clear(ctx context.Context) (int, error) {
	removed := 0
	err := r.scan(ctx, func(keys []string) error {
		n, err := r.client.Del(ctx, keys...).Result()
		removed += int(n)
		return err
	})
	if err != nil {
		return removed, fmt.Errorf("failed to clear: %w", err)
	}
	return removed, nil
}

// Stats implements Store.
func (r *RedisStore) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Backend: BackendRedis}
	err := r.scan(ctx, func(keys []string) error {
		stats.Entries += len(keys)
		for _, k := range keys {
			n, err := r.client.StrLen(ctx, k).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				return err
			}
			stats.Bytes += int64(len(k)) + n
		}
		return nil
	})
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read stats: %w", err)
	}
	return stats, nil
}

// Close implements Store.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) scan(ctx context.Context, fn func(keys []string) error) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := fn(keys); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
