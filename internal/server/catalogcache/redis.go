package catalogcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/publiceyeusa/publiceye/internal/server/models"
)

// DefaultKey is the Redis key holding the encoded catalog.
const DefaultKey = "publiceye:affiliations"

// kv is the slice of the go-redis client the cache needs.
type kv interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

type RedisCache struct {
	rdb kv
	key string
	ttl time.Duration
}

func newRedisCache(rdb kv, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, key: DefaultKey, ttl: ttl}
}

// NewRedisCache connects to addr and verifies the connection with PING.
// The returned close function releases the client.
func NewRedisCache(ctx context.Context, addr string, ttl time.Duration) (*RedisCache, func() error, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}

	return newRedisCache(rdb, ttl), rdb.Close, nil
}

func (c *RedisCache) Get(ctx context.Context) ([]models.Affiliation, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var affs []models.Affiliation
	if err := json.Unmarshal(raw, &affs); err != nil {
		return nil, false, fmt.Errorf("decode cached catalog: %w", err)
	}
	return affs, true, nil
}

func (c *RedisCache) Set(ctx context.Context, affs []models.Affiliation) error {
	raw, err := json.Marshal(affs)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, c.key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
