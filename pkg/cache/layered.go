package cache

import (
	"context"
	"time"
)

// LayeredCache is a two-level cache, memory in front of Redis.
type LayeredCache struct {
	memCache   *MemoryCache
	redisCache *RedisCache
}

// NewLayeredCache creates a layered cache over an existing Redis cache.
func NewLayeredCache(redisCache *RedisCache, opts ...LayeredOption) *LayeredCache {
	cfg := &LayeredConfig{
		MemoryMaxSize: 1000,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &LayeredCache{
		memCache:   NewMemoryCache(WithMemoryMaxSize(cfg.MemoryMaxSize)),
		redisCache: redisCache,
	}
}

// Set writes through: Redis first, memory on success.
func (lc *LayeredCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := lc.redisCache.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	_ = lc.memCache.Set(ctx, key, value, ttl)
	return nil
}

// Get reads memory first, falls back to Redis and backfills memory.
func (lc *LayeredCache) Get(ctx context.Context, key string) (string, error) {
	if val, err := lc.memCache.Get(ctx, key); err == nil {
		return val, nil
	}

	val, err := lc.redisCache.Get(ctx, key)
	if err != nil {
		return "", err
	}

	_ = lc.memCache.Set(ctx, key, val, 0)
	return val, nil
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.memCache.Delete(ctx, keys...)
	return lc.redisCache.Delete(ctx, keys...)
}

// Close closes both layers.
func (lc *LayeredCache) Close() error {
	_ = lc.memCache.Close()
	return lc.redisCache.Close()
}
