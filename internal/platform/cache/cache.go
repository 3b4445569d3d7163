package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by GetJSON when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache is a TTL-bounded JSON blob store keyed by request parameters. Both
// implementations serialize through encoding/json so cached and fresh values
// decode identically.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) error
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
}
