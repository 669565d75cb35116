package repositories

import (
	"context"
	"time"
)

// CacheRepositoryInterface is the small key/value surface the services need.
// Get returns ErrCacheMiss when the key is absent.
type CacheRepositoryInterface interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	DelByPrefix(ctx context.Context, prefix string) (int, error)
}
