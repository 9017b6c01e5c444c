package moderation

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"whereto/internal/store"
)

var (
	ErrInvalidTarget = errors.New("invalid moderation target")
	ErrInvalidAction = errors.New("invalid moderation action")
)

// Manual actions a moderator may apply from the queue.
const (
	ManualRemove  = "remove"
	ManualRestore = "restore"
	ManualDismiss = "dismiss"
)

const queueLimit = 200

// QueueItem is an open report joined with a snapshot of its target. Reports
// whose target has since disappeared are kept and marked missing instead of
// being silently dropped.
type QueueItem struct {
	Report  store.Report          `json:"report"`
	Place   *store.PlaceSummary   `json:"place,omitempty"`
	Comment *store.CommentSummary `json:"comment,omitempty"`
	Missing bool                  `json:"missing"`
}

// ActionInput describes a manual moderation decision. When ReportID is set
// only that report is closed; otherwise every open report on the target is.
type ActionInput struct {
	TargetType string
	TargetID   int64
	Action     string
	Reason     string
	ReportID   *int64
}

type Service struct {
	places   store.PlacesStore
	comments store.CommentsStore
	reports  store.ReportsStore
	actions  store.ModerationActionsStore
	logger   *zap.SugaredLogger
}

func NewService(places store.PlacesStore, comments store.CommentsStore, reports store.ReportsStore, actions store.ModerationActionsStore, logger *zap.SugaredLogger) *Service {
	return &Service{
		places:   places,
		comments: comments,
		reports:  reports,
		actions:  actions,
		logger:   logger,
	}
}

// EvaluateThresholds applies the community thresholds to a target after its
// open-report count changed. It always refreshes the cached report_count on
// the target; when a threshold is crossed it transitions the status, closes
// all open reports as reviewed and appends an audit row attributed to the
// community. Re-evaluating an already transitioned target is a no-op beyond
// the count refresh.
func (s *Service) EvaluateThresholds(ctx context.Context, targetType string, targetID int64, openReports int) error {
	status, err := s.targetStatus(ctx, targetType, targetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Target vanished between the report write and now; the queue
			// will still list the report as missing.
			return nil
		}
		return err
	}

	decision := Decide(targetType, status, openReports)

	if err := s.setReportState(ctx, targetType, targetID, openReports, decision.NextStatus); err != nil {
		return err
	}
	if !decision.Transition() {
		return nil
	}

	if err := s.reports.CloseAllOpen(ctx, targetType, targetID, store.ReportStatusReviewed, decision.Action, nil); err != nil {
		return err
	}

	action := &store.ModerationAction{
		TargetType: targetType,
		TargetID:   targetID,
		Action:     decision.Action,
		Reason:     fmt.Sprintf("community_threshold_%d", openReports),
		ActorName:  Community().Name,
		Metadata:   map[string]any{"open_reports": openReports},
	}
	if err := s.actions.Create(ctx, action); err != nil {
		return err
	}

	s.logger.Infow("community threshold crossed",
		"target_type", targetType,
		"target_id", targetID,
		"action", decision.Action,
		"open_reports", openReports,
	)
	return nil
}

// Queue lists open reports, newest first, each joined with a target snapshot.
func (s *Service) Queue(ctx context.Context) ([]QueueItem, error) {
	reports, err := s.reports.ListOpen(ctx, queueLimit)
	if err != nil {
		return nil, err
	}

	var placeIDs, commentIDs []int64
	for _, r := range reports {
		switch r.TargetType {
		case TargetPlace:
			placeIDs = append(placeIDs, r.TargetID)
		case TargetComment:
			commentIDs = append(commentIDs, r.TargetID)
		}
	}

	places, err := s.places.Summaries(ctx, placeIDs)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.Summaries(ctx, commentIDs)
	if err != nil {
		return nil, err
	}

	queue := make([]QueueItem, 0, len(reports))
	for _, r := range reports {
		item := QueueItem{Report: r}
		switch r.TargetType {
		case TargetPlace:
			if p, ok := places[r.TargetID]; ok {
				item.Place = &p
			} else {
				item.Missing = true
			}
		case TargetComment:
			if c, ok := comments[r.TargetID]; ok {
				item.Comment = &c
			} else {
				item.Missing = true
			}
		}
		queue = append(queue, item)
	}
	return queue, nil
}

// ApplyAction applies a manual moderation decision. Input is validated before
// any write. Sequence: status transition, report closure, count refresh, audit
// row; a crash mid-sequence leaves open reports against already-moderated
// content, which the queue keeps listing and a re-run cleans up.
func (s *Service) ApplyAction(ctx context.Context, moderator Actor, in ActionInput) error {
	if !IsValidTargetType(in.TargetType) {
		return ErrInvalidTarget
	}
	if in.Action != ManualRemove && in.Action != ManualRestore && in.Action != ManualDismiss {
		return ErrInvalidAction
	}
	if _, err := s.targetStatus(ctx, in.TargetType, in.TargetID); err != nil {
		return err
	}
	if in.ReportID != nil {
		if _, err := s.reports.GetByID(ctx, *in.ReportID); err != nil {
			return err
		}
	}

	switch in.Action {
	case ManualRemove:
		if err := s.setStatus(ctx, in.TargetType, in.TargetID, "removed"); err != nil {
			return err
		}
	case ManualRestore:
		if err := s.setStatus(ctx, in.TargetType, in.TargetID, visibleStatus(in.TargetType)); err != nil {
			return err
		}
	}

	closedAs := store.ReportStatusReviewed
	if in.Action == ManualDismiss {
		closedAs = store.ReportStatusDismissed
	}
	if in.ReportID != nil {
		if err := s.reports.Close(ctx, *in.ReportID, closedAs, in.Action, moderator.ID); err != nil {
			return err
		}
	} else {
		if err := s.reports.CloseAllOpen(ctx, in.TargetType, in.TargetID, closedAs, in.Action, moderator.ID); err != nil {
			return err
		}
	}

	open, err := s.reports.CountOpen(ctx, in.TargetType, in.TargetID)
	if err != nil {
		return err
	}
	if err := s.setReportCount(ctx, in.TargetType, in.TargetID, open); err != nil {
		return err
	}

	recorded := in.Action
	if in.Action == ManualDismiss {
		recorded = ActionDismissReport
	}
	metadata := map[string]any{}
	if in.ReportID != nil {
		metadata["report_id"] = *in.ReportID
	}
	action := &store.ModerationAction{
		TargetType: in.TargetType,
		TargetID:   in.TargetID,
		Action:     recorded,
		Reason:     in.Reason,
		ActorID:    moderator.ID,
		ActorName:  moderator.Name,
		Metadata:   metadata,
	}
	if err := s.actions.Create(ctx, action); err != nil {
		return err
	}

	s.logger.Infow("moderation action applied",
		"target_type", in.TargetType,
		"target_id", in.TargetID,
		"action", recorded,
		"moderator", moderator.Name,
	)
	return nil
}

func visibleStatus(targetType string) string {
	if targetType == TargetComment {
		return store.CommentStatusActive
	}
	return store.PlaceStatusApproved
}

func (s *Service) targetStatus(ctx context.Context, targetType string, targetID int64) (string, error) {
	if targetType == TargetComment {
		comment, err := s.comments.GetByID(ctx, targetID)
		if err != nil {
			return "", err
		}
		return comment.Status, nil
	}
	place, err := s.places.GetByID(ctx, targetID)
	if err != nil {
		return "", err
	}
	return place.Status, nil
}

func (s *Service) setStatus(ctx context.Context, targetType string, targetID int64, status string) error {
	if targetType == TargetComment {
		return s.comments.SetStatus(ctx, targetID, status)
	}
	return s.places.SetStatus(ctx, targetID, status)
}

func (s *Service) setReportCount(ctx context.Context, targetType string, targetID int64, count int) error {
	if targetType == TargetComment {
		return s.comments.SetReportCount(ctx, targetID, count)
	}
	return s.places.SetReportCount(ctx, targetID, count)
}

func (s *Service) setReportState(ctx context.Context, targetType string, targetID int64, count int, status string) error {
	if targetType == TargetComment {
		return s.comments.SetReportState(ctx, targetID, count, status)
	}
	return s.places.SetReportState(ctx, targetID, count, status)
}
