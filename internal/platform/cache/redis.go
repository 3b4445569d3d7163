package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/threepicks-backend/internal/platform/envutil"
	"github.com/yungbote/threepicks-backend/internal/platform/logger"
)

type redisCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
}

// NewRedis connects to REDIS_ADDR and namespaces keys under REDIS_KEY_PREFIX
// (default "threepicks"). Returns an error when the address is unset or the
// initial ping fails so the caller can fall back to the memory cache.
func NewRedis(log *logger.Logger) (Cache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := envutil.Str("REDIS_ADDR", "")
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisCache{
		log:    log.With("service", "RedisCache"),
		rdb:    rdb,
		prefix: strings.TrimSuffix(envutil.Str("REDIS_KEY_PREFIX", "threepicks"), ":"),
	}, nil
}

func (c *redisCache) key(k string) string {
	return c.prefix + ":" + k
}

func (c *redisCache) GetJSON(ctx context.Context, key string, out any) error {
	raw, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (c *redisCache) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(key), raw, ttl).Err()
}
