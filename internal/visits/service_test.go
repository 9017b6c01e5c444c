package visits_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"whereto/internal/ratelimiter"
	"whereto/internal/store"
	"whereto/internal/store/storetest"
	"whereto/internal/visits"
)

type stubLimiter struct {
	allowed bool
	err     error
}

func (l *stubLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return l.allowed, l.err
}

func newService(ts *storetest.Store, limiter ratelimiter.Limiter) *visits.Service {
	return visits.NewService(ts.Places, ts.Visits, limiter, visits.DefaultBudget, zap.NewNop().Sugar())
}

func TestConfirmUpdatesStats(t *testing.T) {
	ts := storetest.New()
	svc := newService(ts, ratelimiter.Disabled{})
	place := ts.SeedPlace(store.Place{Name: "Peace Pagoda", City: "Pokhara"})

	count, err := svc.Confirm(context.Background(), 4, place.ID)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	got := ts.Place(place.ID)
	if got.VisitConfirmations != 1 {
		t.Errorf("stored confirmations = %d, want 1", got.VisitConfirmations)
	}
	if got.LastVerifiedAt == nil {
		t.Error("last_verified_at not set")
	}

	count, err = svc.Confirm(context.Background(), 5, place.ID)
	if err != nil {
		t.Fatalf("second user confirm: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestConfirmDuplicate(t *testing.T) {
	ts := storetest.New()
	svc := newService(ts, ratelimiter.Disabled{})
	place := ts.SeedPlace(store.Place{Name: "Peace Pagoda", City: "Pokhara"})

	if _, err := svc.Confirm(context.Background(), 4, place.ID); err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	_, err := svc.Confirm(context.Background(), 4, place.ID)
	if !errors.Is(err, visits.ErrAlreadyConfirmed) {
		t.Fatalf("duplicate confirm: err = %v, want ErrAlreadyConfirmed", err)
	}

	if got := ts.Place(place.ID); got.VisitConfirmations != 1 {
		t.Errorf("confirmations = %d after rejected duplicate, want 1", got.VisitConfirmations)
	}
}

func TestConfirmMissingPlace(t *testing.T) {
	ts := storetest.New()
	svc := newService(ts, ratelimiter.Disabled{})

	_, err := svc.Confirm(context.Background(), 4, 999)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("missing place: err = %v, want ErrNotFound", err)
	}
}

func TestConfirmRateLimited(t *testing.T) {
	ts := storetest.New()
	svc := newService(ts, &stubLimiter{allowed: false})
	place := ts.SeedPlace(store.Place{Name: "Peace Pagoda", City: "Pokhara"})

	_, err := svc.Confirm(context.Background(), 4, place.ID)
	if !errors.Is(err, visits.ErrRateLimited) {
		t.Fatalf("throttled confirm: err = %v, want ErrRateLimited", err)
	}
}

func TestConfirmLimiterFailureAllows(t *testing.T) {
	ts := storetest.New()
	svc := newService(ts, &stubLimiter{err: errors.New("limiter down")})
	place := ts.SeedPlace(store.Place{Name: "Peace Pagoda", City: "Pokhara"})

	count, err := svc.Confirm(context.Background(), 4, place.ID)
	if err != nil {
		t.Fatalf("confirm with broken limiter: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
