// Package voting is the vote ledger: one vote per user per place, with the
// cached tallies on the place recomputed from vote rows after every write.
package voting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"whereto/internal/ranking"
	"whereto/internal/ratelimiter"
	"whereto/internal/store"
)

var (
	ErrInvalidVote  = errors.New("vote must be 1 or -1")
	ErrSelfVote     = errors.New("cannot vote on your own place")
	ErrAlreadyVoted = errors.New("already voted")
	ErrRateLimited  = errors.New("too many votes")
)

// Result carries the authoritative tallies after a successful vote.
type Result struct {
	Upvotes   int     `json:"upvotes"`
	Downvotes int     `json:"downvotes"`
	Score     float64 `json:"score"`
}

type Service struct {
	places  store.PlacesStore
	votes   store.VotesStore
	limiter ratelimiter.Limiter
	budget  ratelimiter.Budget
	logger  *zap.SugaredLogger
}

func NewService(places store.PlacesStore, votes store.VotesStore, limiter ratelimiter.Limiter, budget ratelimiter.Budget, logger *zap.SugaredLogger) *Service {
	return &Service{
		places:  places,
		votes:   votes,
		limiter: limiter,
		budget:  budget,
		logger:  logger,
	}
}

// CastVote records a vote by userID on placeID. A repeated vote in the same
// direction is rejected; a vote in the opposite direction overwrites the
// existing row. After any write the place's tallies are recomputed from the
// vote rows, not adjusted incrementally, so concurrent writers converge.
func (s *Service) CastVote(ctx context.Context, userID, placeID int64, value int) (Result, error) {
	if value != store.VoteUp && value != store.VoteDown {
		return Result{}, ErrInvalidVote
	}

	place, err := s.places.GetByID(ctx, placeID)
	if err != nil {
		return Result{}, err
	}
	if place.CreatedBy == userID {
		return Result{}, ErrSelfVote
	}

	if err := s.checkLimit(ctx, userID); err != nil {
		return Result{}, err
	}

	existing, err := s.votes.Get(ctx, userID, placeID)
	switch {
	case err == nil:
		if existing.Value == value {
			return Result{}, ErrAlreadyVoted
		}
		if err := s.votes.SetValue(ctx, userID, placeID, value); err != nil {
			return Result{}, err
		}
	case errors.Is(err, store.ErrNotFound):
		vote := &store.Vote{UserID: userID, PlaceID: placeID, Value: value}
		if err := s.votes.Create(ctx, vote); err != nil {
			// A concurrent insert for the same (user, place) raced us.
			if errors.Is(err, store.ErrConflict) {
				return Result{}, ErrAlreadyVoted
			}
			return Result{}, err
		}
	default:
		return Result{}, err
	}

	return s.refreshCounts(ctx, placeID)
}

// refreshCounts recomputes the place's tallies from the vote rows and writes
// them back along with the derived score.
func (s *Service) refreshCounts(ctx context.Context, placeID int64) (Result, error) {
	upvotes, downvotes, err := s.votes.CountByPlace(ctx, placeID)
	if err != nil {
		return Result{}, err
	}

	score := ranking.Score(upvotes, downvotes)
	if err := s.places.SetVoteCounts(ctx, placeID, upvotes, downvotes, score); err != nil {
		return Result{}, err
	}

	return Result{Upvotes: upvotes, Downvotes: downvotes, Score: score}, nil
}

func (s *Service) checkLimit(ctx context.Context, userID int64) error {
	key := fmt.Sprintf("vote:%d", userID)
	allowed, err := s.limiter.Allow(ctx, key, s.budget.Limit, s.budget.Window)
	if err != nil {
		// Fail open: a limiter outage must not block voting.
		s.logger.Warnw("rate limiter unavailable, allowing vote", "error", err)
		return nil
	}
	if !allowed {
		return ErrRateLimited
	}
	return nil
}

// DefaultBudget is the vote allowance per user.
var DefaultBudget = ratelimiter.Budget{Limit: 30, Window: time.Minute}
