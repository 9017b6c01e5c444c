// Package visits tracks "I've been here" confirmations, a trust signal
// independent from votes.
package visits

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"whereto/internal/ratelimiter"
	"whereto/internal/store"
)

var (
	ErrAlreadyConfirmed = errors.New("visit already confirmed")
	ErrRateLimited      = errors.New("too many actions")
)

type Service struct {
	places  store.PlacesStore
	visits  store.VisitsStore
	limiter ratelimiter.Limiter
	budget  ratelimiter.Budget
	logger  *zap.SugaredLogger
}

func NewService(places store.PlacesStore, visits store.VisitsStore, limiter ratelimiter.Limiter, budget ratelimiter.Budget, logger *zap.SugaredLogger) *Service {
	return &Service{
		places:  places,
		visits:  visits,
		limiter: limiter,
		budget:  budget,
		logger:  logger,
	}
}

// Confirm records that userID visited placeID and returns the refreshed
// confirmation count. A second confirmation by the same user is rejected and
// changes nothing.
func (s *Service) Confirm(ctx context.Context, userID, placeID int64) (int, error) {
	if _, err := s.places.GetByID(ctx, placeID); err != nil {
		return 0, err
	}

	key := fmt.Sprintf("verify:%d", userID)
	allowed, err := s.limiter.Allow(ctx, key, s.budget.Limit, s.budget.Window)
	if err != nil {
		s.logger.Warnw("rate limiter unavailable, allowing visit confirmation", "error", err)
	} else if !allowed {
		return 0, ErrRateLimited
	}

	if err := s.visits.Create(ctx, userID, placeID); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return 0, ErrAlreadyConfirmed
		}
		return 0, err
	}

	count, err := s.visits.CountByPlace(ctx, placeID)
	if err != nil {
		return 0, err
	}
	if err := s.places.SetVisitStats(ctx, placeID, count, time.Now()); err != nil {
		return 0, err
	}
	return count, nil
}

// DefaultBudget is the visit-confirmation allowance per user.
var DefaultBudget = ratelimiter.Budget{Limit: 20, Window: time.Minute}
