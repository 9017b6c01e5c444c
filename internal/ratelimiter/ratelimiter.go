package ratelimiter

import (
	"context"
	"time"
)

// Limiter is the soft-throttle collaborator used by the write paths. Callers
// must treat an error as "allowed" (fail open): throttling is a guard, not a
// correctness mechanism, and an outage of the limiter must never take voting
// or reporting down with it.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type Config struct {
	Enabled bool
}

// Budget is a per-action allowance over a rolling window.
type Budget struct {
	Limit  int
	Window time.Duration
}

// Disabled is a Limiter that allows everything. Used when rate limiting is
// turned off by configuration.
type Disabled struct{}

func (Disabled) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return true, nil
}
