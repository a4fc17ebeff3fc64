package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"taskdeck/internal/store"
)

type redisCache struct {
	client *redis.Client
}

// NewRedis connects to the redis instance at addr and verifies the
// connection before returning.
func NewRedis(ctx context.Context, addr string) (store.CacheRepository, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &redisCache{client: client}, nil
}

func (r *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, key).Bytes()

	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}

	return value, err
}

func (r *redisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	var cursor uint64

	for {
		keys, next, err := r.client.Scan(ctx, cursor, prefix+"*", 100).Result()

		if err != nil {
			return err
		}

		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}

		if next == 0 {
			return nil
		}

		cursor = next
	}
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
