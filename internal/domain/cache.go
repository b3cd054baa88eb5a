package domain

import (
	"context"
	"time"
)

// Cache is a minimal key/value cache port, backed by Redis in production.
// Implementations return ErrCacheMiss for absent keys.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
