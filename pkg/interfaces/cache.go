package interfaces

import (
	"context"
	"time"
)

// CacheProvider stores rendered artifacts (feed documents, sitemaps). A nil
// value with a nil error from Get is a cache miss.
type CacheProvider interface {
	Get(ctx context.Context, key string) (any, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
