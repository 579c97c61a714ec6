package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisThrottle admits the first caller per key and rejects the rest until
// the key expires.
type RedisThrottle struct {
	rdb *redis.Client
}

// NewRedisThrottle creates a new RedisThrottle.
func NewRedisThrottle(rdb *redis.Client) *RedisThrottle {
	return &RedisThrottle{rdb: rdb}
}

func (t *RedisThrottle) Allow(ctx context.Context, key string, window time.Duration) (bool, error) {
	return t.rdb.SetNX(ctx, key, time.Now().Unix(), window).Result()
}
