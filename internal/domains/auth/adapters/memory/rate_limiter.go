package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Apurer/laundry-backoffice/internal/domains/auth/ports"
)

var _ ports.RateLimiter = (*RateLimiter)(nil)

type window struct {
	count int
	start time.Time
}

// RateLimiter is a fixed-window counter scoped to this process. Suitable for
// a single-instance deployment; multi-process setups should use the Redis
// limiter so session rotation cannot bypass the window.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		windows: map[string]*window{},
		now:     time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (l *RateLimiter) WithClock(now func() time.Time) {
	if now != nil {
		l.now = now
	}
}

// Allow counts the attempt under lock so concurrent requests cannot both
// claim the last slot of a window.
func (l *RateLimiter) Allow(_ context.Context, action ports.Action, clientID string, limit int, windowSize time.Duration) (bool, error) {
	key := limiterKey(action, clientID)
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) > windowSize {
		l.windows[key] = &window{count: 1, start: now}
		return true, nil
	}
	if w.count >= limit {
		return false, nil
	}
	w.count++
	return true, nil
}

func (l *RateLimiter) Reset(_ context.Context, action ports.Action, clientID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, limiterKey(action, clientID))
	return nil
}

func limiterKey(action ports.Action, clientID string) string {
	return fmt.Sprintf("%s:%s", action, clientID)
}
