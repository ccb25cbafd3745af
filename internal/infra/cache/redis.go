package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bryanwahyu/estatehub/internal/domain/properties"
)

const statsKey = "estatehub:property_stats"

// RedisCache keeps the dashboard stats as one JSON value.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr, password string, db int, ttl time.Duration) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedisCacheFromClient(rdb, ttl)
}

func NewRedisCacheFromClient(rdb *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCache{client: rdb, ttl: ttl}
}

// GetStats reports a miss on any error; the caller recomputes.
func (r *RedisCache) GetStats(ctx context.Context) (*properties.Stats, bool) {
	raw, err := r.client.Get(ctx, statsKey).Bytes()
	if err != nil {
		return nil, false
	}
	var st properties.Stats
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, false
	}
	return &st, true
}

func (r *RedisCache) SetStats(ctx context.Context, st *properties.Stats) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, statsKey, raw, r.ttl).Err()
}

func (r *RedisCache) Invalidate(ctx context.Context) error {
	err := r.client.Del(ctx, statsKey).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

func (r *RedisCache) Ping(ctx context.Context) error { return r.client.Ping(ctx).Err() }

func (r *RedisCache) Close() error { return r.client.Close() }

// Noop is used when no redis address is configured.
type Noop struct{}

func (Noop) GetStats(context.Context) (*properties.Stats, bool) { return nil, false }
func (Noop) SetStats(context.Context, *properties.Stats) error  { return nil }
func (Noop) Invalidate(context.Context) error                   { return nil }
