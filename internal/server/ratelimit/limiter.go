// Package ratelimit counts requests per key (usually the client IP) and
// decides whether another one fits in the current window. Memory keeps the
// counters in-process; Redis shares them between server instances.
package ratelimit

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable - бэкенд лимитера недоступен
	ErrUnavailable = errors.New("rate limiter unavailable")
)

// Limiter decides whether a request identified by key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
