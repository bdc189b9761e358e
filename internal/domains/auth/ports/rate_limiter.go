package ports

import (
	"context"
	"time"
)

// RateLimiter throttles actions per client identity within a sliding window.
// Check and increment are a single operation so concurrent requests cannot
// both pass the last slot of a window.
type RateLimiter interface {
	// Allow records an attempt and reports whether it is within the limit.
	// A denied attempt must cause no side effect in the caller.
	Allow(ctx context.Context, action Action, clientID string, limit int, window time.Duration) (bool, error)
	// Reset clears the counter for an action/client pair, e.g. after a
	// successful login.
	Reset(ctx context.Context, action Action, clientID string) error
}

// Limit pairs a maximum attempt count with its window.
type Limit struct {
	Max    int
	Window time.Duration
}

// DefaultLimits returns the per-action rate limits.
func DefaultLimits() map[Action]Limit {
	return map[Action]Limit{
		ActionCreateOrder: {Max: 10, Window: time.Minute},
		ActionLogin:       {Max: 5, Window: time.Minute},
		ActionRegister:    {Max: 3, Window: time.Minute},
	}
}
