// Package redis backs the rate limiter with a shared store so limits hold
// across processes and cannot be bypassed by session rotation.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Apurer/laundry-backoffice/internal/domains/auth/ports"
)

var _ ports.RateLimiter = (*RateLimiter)(nil)

// RateLimiter implements a fixed window with INCR + EXPIRE. The increment is
// atomic in Redis, so concurrent requests cannot both claim the last slot.
type RateLimiter struct {
	client *redis.Client
	prefix string
}

// NewRateLimiter wires a limiter on an existing client. Caller owns the
// client lifecycle.
func NewRateLimiter(client *redis.Client, serviceName string) *RateLimiter {
	if serviceName == "" {
		serviceName = "laundry"
	}
	return &RateLimiter{client: client, prefix: serviceName}
}

func (l *RateLimiter) Allow(ctx context.Context, action ports.Action, clientID string, limit int, window time.Duration) (bool, error) {
	key := l.key(action, clientID)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return count <= int64(limit), nil
}

func (l *RateLimiter) Reset(ctx context.Context, action ports.Action, clientID string) error {
	return l.client.Del(ctx, l.key(action, clientID)).Err()
}

func (l *RateLimiter) key(action ports.Action, clientID string) string {
	return fmt.Sprintf("%s:ratelimit:%s:%s", l.prefix, action, clientID)
}
