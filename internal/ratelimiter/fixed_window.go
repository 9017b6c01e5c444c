package ratelimiter

import (
	"context"
	"sync"
	"time"
)

// FixedWindow is a process-local fixed-window limiter. Counters reset when
// their window elapses and are lost on restart, which is acceptable for a
// best-effort guard.
type FixedWindow struct {
	mu      sync.Mutex
	clients map[string]*windowEntry
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

func NewFixedWindow() *FixedWindow {
	return &FixedWindow{
		clients: make(map[string]*windowEntry),
	}
}

func (rl *FixedWindow) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.clients[key]
	if !ok || now.After(entry.resetAt) {
		rl.clients[key] = &windowEntry{count: 1, resetAt: now.Add(window)}
		return true, nil
	}

	entry.count++
	if entry.count > limit {
		return false, nil
	}
	return true, nil
}

// Cleanup drops expired windows. Run it on a ticker from main so the map
// doesn't grow without bound.
func (rl *FixedWindow) Cleanup() {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, entry := range rl.clients {
		if now.After(entry.resetAt) {
			delete(rl.clients, key)
		}
	}
}
