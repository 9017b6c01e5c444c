package ratelimiter

import (
	"context"
	"testing"
	"time"
)

func TestFixedWindowAllowsUpToLimit(t *testing.T) {
	rl := NewFixedWindow()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := rl.Allow(ctx, "user:1", 3, time.Minute)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	ok, _ := rl.Allow(ctx, "user:1", 3, time.Minute)
	if ok {
		t.Fatal("request over the limit should be rejected")
	}
}

func TestFixedWindowKeysAreIndependent(t *testing.T) {
	rl := NewFixedWindow()
	ctx := context.Background()

	rl.Allow(ctx, "vote:1", 1, time.Minute)
	if ok, _ := rl.Allow(ctx, "vote:1", 1, time.Minute); ok {
		t.Fatal("second request on exhausted key should be rejected")
	}
	if ok, _ := rl.Allow(ctx, "vote:2", 1, time.Minute); !ok {
		t.Fatal("other key should have its own budget")
	}
}

func TestFixedWindowResetsAfterWindow(t *testing.T) {
	rl := NewFixedWindow()
	ctx := context.Background()

	rl.Allow(ctx, "report:1", 1, 10*time.Millisecond)
	if ok, _ := rl.Allow(ctx, "report:1", 1, 10*time.Millisecond); ok {
		t.Fatal("budget should be exhausted")
	}

	time.Sleep(15 * time.Millisecond)
	if ok, _ := rl.Allow(ctx, "report:1", 1, 10*time.Millisecond); !ok {
		t.Fatal("budget should reset after the window")
	}
}
