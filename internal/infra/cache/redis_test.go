package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/bryanwahyu/estatehub/internal/domain/properties"
)

func TestNoop(t *testing.T) {
	var c Noop
	ctx := context.Background()
	assert.NoError(t, c.SetStats(ctx, &properties.Stats{}))
	_, ok := c.GetStats(ctx)
	assert.False(t, ok)
	assert.NoError(t, c.Invalidate(ctx))
}

func TestRedisCache_UnreachableIsAMiss(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	c := NewRedisCacheFromClient(rdb, time.Minute)
	defer c.Close()

	ctx := context.Background()
	_, ok := c.GetStats(ctx)
	assert.False(t, ok)
	assert.Error(t, c.SetStats(ctx, &properties.Stats{}))
}
