package cache

import (
	"context"
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("cache: key not found")

// Service is a string-valued cache. Callers serialize their own
// payloads; everything stored here is an opaque string.
type Service interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
}

// Key joins a prefix and an id into a cache key.
func Key(prefix, id string) string {
	return prefix + ":" + id
}
