// Package cache provides the CacheRepository implementations: an in-process
// one backed by go-cache and a redis one for multi-instance deployments.
package cache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"taskdeck/internal/store"
)

type memoryCache struct {
	cache *gocache.Cache
}

// NewMemory returns an in-process cache with the given default expiration.
func NewMemory(defaultTTL time.Duration) store.CacheRepository {
	return &memoryCache{
		cache: gocache.New(defaultTTL, 2*defaultTTL),
	}
}

func (m *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.cache.Set(key, value, ttl)
	return nil
}

func (m *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, found := m.cache.Get(key)

	if !found {
		return nil, store.ErrNotFound
	}

	return value.([]byte), nil
}

func (m *memoryCache) Delete(ctx context.Context, key string) error {
	m.cache.Delete(key)
	return nil
}

func (m *memoryCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	for key := range m.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			m.cache.Delete(key)
		}
	}

	return nil
}

func (m *memoryCache) Close() error {
	m.cache.Flush()
	return nil
}
