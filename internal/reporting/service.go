// Package reporting is the community report intake: one report per reporter
// per target, feeding the auto-moderation thresholds on every new report.
package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"whereto/internal/moderation"
	"whereto/internal/ratelimiter"
	"whereto/internal/sanitize"
	"whereto/internal/store"
)

var (
	ErrInvalidTarget   = errors.New("invalid report target")
	ErrInvalidReason   = errors.New("invalid report reason")
	ErrAlreadyReported = errors.New("already reported")
	ErrRateLimited     = errors.New("too many reports")
)

const maxDetailsLength = 500

// Input is a community report against a place or comment.
type Input struct {
	TargetType string
	TargetID   int64
	Reason     string
	Details    string
}

type Service struct {
	places   store.PlacesStore
	comments store.CommentsStore
	reports  store.ReportsStore
	mod      *moderation.Service
	limiter  ratelimiter.Limiter
	budget   ratelimiter.Budget
	logger   *zap.SugaredLogger
}

func NewService(places store.PlacesStore, comments store.CommentsStore, reports store.ReportsStore, mod *moderation.Service, limiter ratelimiter.Limiter, budget ratelimiter.Budget, logger *zap.SugaredLogger) *Service {
	return &Service{
		places:   places,
		comments: comments,
		reports:  reports,
		mod:      mod,
		limiter:  limiter,
		budget:   budget,
		logger:   logger,
	}
}

// FileReport records a report by reporterID and re-evaluates the community
// thresholds against the fresh open-report count. Returns that count.
// A duplicate report from the same reporter yields ErrAlreadyReported.
func (s *Service) FileReport(ctx context.Context, reporterID int64, in Input) (int, error) {
	if !moderation.IsValidTargetType(in.TargetType) {
		return 0, ErrInvalidTarget
	}
	if !moderation.IsValidReason(in.Reason) {
		return 0, ErrInvalidReason
	}

	if err := s.targetReportable(ctx, in.TargetType, in.TargetID); err != nil {
		return 0, err
	}

	if err := s.checkLimit(ctx, reporterID); err != nil {
		return 0, err
	}

	details := sanitize.Truncate(sanitize.Text(in.Details), maxDetailsLength)
	report := &store.Report{
		TargetType: in.TargetType,
		TargetID:   in.TargetID,
		ReporterID: reporterID,
		Reason:     in.Reason,
		Details:    details,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return 0, ErrAlreadyReported
		}
		return 0, err
	}

	open, err := s.reports.CountOpen(ctx, in.TargetType, in.TargetID)
	if err != nil {
		return 0, err
	}

	if err := s.mod.EvaluateThresholds(ctx, in.TargetType, in.TargetID, open); err != nil {
		return 0, err
	}

	return open, nil
}

// targetReportable verifies the target exists and is not already removed;
// reports against taken-down content would never be actionable.
func (s *Service) targetReportable(ctx context.Context, targetType string, targetID int64) error {
	if targetType == moderation.TargetComment {
		comment, err := s.comments.GetByID(ctx, targetID)
		if err != nil {
			return err
		}
		if comment.Status == store.CommentStatusRemoved {
			return store.ErrNotFound
		}
		return nil
	}

	place, err := s.places.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if place.Status == store.PlaceStatusRemoved {
		return store.ErrNotFound
	}
	return nil
}

func (s *Service) checkLimit(ctx context.Context, reporterID int64) error {
	key := fmt.Sprintf("report:%d", reporterID)
	allowed, err := s.limiter.Allow(ctx, key, s.budget.Limit, s.budget.Window)
	if err != nil {
		// Fail open so reporting stays available during a limiter outage.
		s.logger.Warnw("rate limiter unavailable, allowing report", "error", err)
		return nil
	}
	if !allowed {
		return ErrRateLimited
	}
	return nil
}

// DefaultBudget is the report allowance per user.
var DefaultBudget = ratelimiter.Budget{Limit: 20, Window: time.Minute}
