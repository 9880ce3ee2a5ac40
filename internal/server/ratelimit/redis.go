package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix is prepended to every counter key.
const DefaultRedisPrefix = "blinkauth:rl:"

// Redis is a fixed-window limiter shared by all instances using the same
// Redis. The window starts with the first hit on a key.
type Redis struct {
	client redis.UniversalClient
	prefix string
	rate   int
	window time.Duration
}

// NewRedis creates a limiter on top of client. An empty prefix means
// DefaultRedisPrefix.
func NewRedis(client redis.UniversalClient, prefix string, rate int, window time.Duration) *Redis {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Redis{
		client: client,
		prefix: prefix,
		rate:   rate,
		window: window,
	}
}

// Allow increments the counter of key and reports whether it is still within
// the rate. Redis failures are returned wrapped in ErrUnavailable.
func (l *Redis) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := l.prefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// TTL ставится только на первый запрос окна
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	return count <= int64(l.rate), nil
}
