package moderation_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"whereto/internal/moderation"
	"whereto/internal/store"
	"whereto/internal/store/storetest"
)

func newService(ts *storetest.Store) *moderation.Service {
	return moderation.NewService(ts.Places, ts.Comments, ts.Reports, ts.Actions, zap.NewNop().Sugar())
}

// fileReports inserts n open reports against a target, each from a distinct
// reporter, and returns the resulting open count.
func fileReports(t *testing.T, ts *storetest.Store, targetType string, targetID int64, n int) int {
	t.Helper()
	for i := 0; i < n; i++ {
		report := &store.Report{
			TargetType: targetType,
			TargetID:   targetID,
			ReporterID: int64(1000 + i),
			Reason:     "spam_or_scam",
		}
		if err := ts.Reports.Create(context.Background(), report); err != nil {
			t.Fatalf("creating report: %v", err)
		}
	}
	open, err := ts.Reports.CountOpen(context.Background(), targetType, targetID)
	if err != nil {
		t.Fatalf("counting open reports: %v", err)
	}
	return open
}

func TestEvaluateThresholdsFlagsPlace(t *testing.T) {
	ts := storetest.New()
	svc := newService(ts)
	place := ts.SeedPlace(store.Place{Name: "Mirror Lake", City: "Pokhara"})

	open := fileReports(t, ts, moderation.TargetPlace, place.ID, 3)
	if err := svc.EvaluateThresholds(context.Background(), moderation.TargetPlace, place.ID, open); err != nil {
		t.Fatalf("EvaluateThresholds: %v", err)
	}

	got := ts.Place(place.ID)
	if got.Status != store.PlaceStatusFlagged {
		t.Errorf("place status = %q, want flagged", got.Status)
	}
	if got.ReportCount != 3 {
		t.Errorf("report count = %d, want 3", got.ReportCount)
	}

	remaining, _ := ts.Reports.CountOpen(context.Background(), moderation.TargetPlace, place.ID)
	if remaining != 0 {
		t.Errorf("open reports after flag = %d, want 0", remaining)
	}

	log := ts.AuditLog()
	if len(log) != 1 {
		t.Fatalf("audit log has %d entries, want 1", len(log))
	}
	entry := log[0]
	if entry.Action != moderation.ActionAutoFlag {
		t.Errorf("audit action = %q, want %q", entry.Action, moderation.ActionAutoFlag)
	}
	if entry.Reason != "community_threshold_3" {
		t.Errorf("audit reason = %q", entry.Reason)
	}
	if entry.ActorID != nil || entry.ActorName != "community" {
		t.Errorf("audit actor = (%v, %q), want community with no id", entry.ActorID, entry.ActorName)
	}
}

func TestEvaluateThresholdsRemovesPlace(t *testing.T) {
	ts := storetest.New()
	svc := newService(ts)
	place := ts.SeedPlace(store.Place{Name: "Back Alley Bar", City: "Pokhara", Status: store.PlaceStatusFlagged})

	open := fileReports(t, ts, moderation.TargetPlace, place.ID, 7)
	if err := svc.EvaluateThresholds(context.Background(), moderation.TargetPlace, place.ID, open); err != nil {
		t.Fatalf("EvaluateThresholds: %v", err)
	}

	if got := ts.Place(place.ID); got.Status != store.PlaceStatusRemoved {
		t.Errorf("place status = %q, want removed", got.Status)
	}
	log := ts.AuditLog()
	if len(log) != 1 || log[0].Action != moderation.ActionAutoRemove {
		t.Fatalf("audit log = %+v, want one auto_remove entry", log)
	}
}

func TestEvaluateThresholdsBelowThresholdOnlyRefreshesCount(t *testing.T) {
	ts := storetest.New()
	svc := newService(ts)
	place := ts.SeedPlace(store.Place{Name: "Quiet Cafe", City: "Pokhara"})

	open := fileReports(t, ts, moderation.TargetPlace, place.ID, 2)
	if err := svc.EvaluateThresholds(context.Background(), moderation.TargetPlace, place.ID, open); err != nil {
		t.Fatalf("EvaluateThresholds: %v", err)
	}

	got := ts.Place(place.ID)
	if got.Status != store.PlaceStatusApproved {
		t.Errorf("place status = %q, want approved", got.Status)
	}
	if got.ReportCount != 2 {
		t.Errorf("report count = %d, want 2", got.ReportCount)
	}
	if len(ts.AuditLog()) != 0 {
		t.Error("audit log written below threshold")
	}
}

func TestEvaluateThresholdsCommentRemoveAtFive(t *testing.T) {
	ts := storetest.New()
	svc := newService(ts)
	comment := ts.SeedComment(store.Comment{PlaceID: 99, UserID: 1, Text: "spam"})

	open := fileReports(t, ts, moderation.TargetComment, comment.ID, 5)
	if err := svc.EvaluateThresholds(context.Background(), moderation.TargetComment, comment.ID, open); err != nil {
		t.Fatalf("EvaluateThresholds: %v", err)
	}

	if got := ts.Comment(comment.ID); got.Status != store.CommentStatusRemoved {
		t.Errorf("comment status = %q, want removed", got.Status)
	}
}

func TestEvaluateThresholdsMissingTargetIsNoop(t *testing.T) {
	ts := storetest.New()
	svc := newService(ts)

	if err := svc.EvaluateThresholds(context.Background(), moderation.TargetPlace, 12345, 3); err != nil {
		t.Fatalf("EvaluateThresholds on missing target: %v", err)
	}
	if len(ts.AuditLog()) != 0 {
		t.Error("audit log written for missing target")
	}
}

func TestApplyActionRestoreClosesAllOpenReports(t *testing.T) {
	ts := storetest.New()
	svc := newService(ts)
	place := ts.SeedPlace(store.Place{Name: "Rooftop", City: "Pokhara", Status: store.PlaceStatusFlagged})
	fileReports(t, ts, moderation.TargetPlace, place.ID, 3)

	err := svc.ApplyAction(context.Background(), moderation.Human(7, "mod"), moderation.ActionInput{
		TargetType: moderation.TargetPlace,
		TargetID:   place.ID,
		Action:     moderation.ManualRestore,
		Reason:     "reports were retaliatory",
	})
	if err != nil {
		t.Fatalf("ApplyAction: %v", err)
	}

	got := ts.Place(place.ID)
	if got.Status != store.PlaceStatusApproved {
		t.Errorf("place status = %q, want approved", got.Status)
	}
	if got.ReportCount != 0 {
		t.Errorf("report count = %d, want 0", got.ReportCount)
	}

	open, _ := ts.Reports.CountOpen(context.Background(), moderation.TargetPlace, place.ID)
	if open != 0 {
		t.Errorf("open reports = %d, want 0", open)
	}

	log := ts.AuditLog()
	if len(log) != 1 {
		t.Fatalf("audit log has %d entries, want 1", len(log))
	}
	if log[0].Action != moderation.ActionRestore {
		t.Errorf("audit action = %q, want restore", log[0].Action)
	}
	if log[0].ActorID == nil || *log[0].ActorID != 7 || log[0].ActorName != "mod" {
		t.Errorf("audit actor = (%v, %q)", log[0].ActorID, log[0].ActorName)
	}
}

func TestApplyActionDismissSingleReport(t *testing.T) {
	ts := storetest.New()
	svc := newService(ts)
	place := ts.SeedPlace(store.Place{Name: "Old Temple", City: "Pokhara"})
	fileReports(t, ts, moderation.TargetPlace, place.ID, 2)

	reports, _ := ts.Reports.ListOpen(context.Background(), 10)
	dismissed := reports[0].ID

	err := svc.ApplyAction(context.Background(), moderation.Human(7, "mod"), moderation.ActionInput{
		TargetType: moderation.TargetPlace,
		TargetID:   place.ID,
		Action:     moderation.ManualDismiss,
		ReportID:   &dismissed,
	})
	if err != nil {
		t.Fatalf("ApplyAction: %v", err)
	}

	if got := ts.Report(dismissed); got.Status != store.ReportStatusDismissed {
		t.Errorf("dismissed report status = %q", got.Status)
	}
	open, _ := ts.Reports.CountOpen(context.Background(), moderation.TargetPlace, place.ID)
	if open != 1 {
		t.Errorf("open reports = %d, want 1", open)
	}

	got := ts.Place(place.ID)
	if got.Status != store.PlaceStatusApproved {
		t.Errorf("place status = %q, dismiss must not change it", got.Status)
	}
	if got.ReportCount != 1 {
		t.Errorf("report count = %d, want 1", got.ReportCount)
	}

	log := ts.AuditLog()
	if len(log) != 1 || log[0].Action != moderation.ActionDismissReport {
		t.Fatalf("audit log = %+v, want one dismiss_report entry", log)
	}
}

func TestApplyActionRemoveComment(t *testing.T) {
	ts := storetest.New()
	svc := newService(ts)
	comment := ts.SeedComment(store.Comment{PlaceID: 5, UserID: 1, Text: "abuse"})
	fileReports(t, ts, moderation.TargetComment, comment.ID, 1)

	err := svc.ApplyAction(context.Background(), moderation.Human(7, "mod"), moderation.ActionInput{
		TargetType: moderation.TargetComment,
		TargetID:   comment.ID,
		Action:     moderation.ManualRemove,
		Reason:     "harassment",
	})
	if err != nil {
		t.Fatalf("ApplyAction: %v", err)
	}

	if got := ts.Comment(comment.ID); got.Status != store.CommentStatusRemoved {
		t.Errorf("comment status = %q, want removed", got.Status)
	}
	open, _ := ts.Reports.CountOpen(context.Background(), moderation.TargetComment, comment.ID)
	if open != 0 {
		t.Errorf("open reports = %d, want 0", open)
	}
}

func TestApplyActionValidation(t *testing.T) {
	ts := storetest.New()
	svc := newService(ts)
	place := ts.SeedPlace(store.Place{Name: "Somewhere", City: "Pokhara"})
	mod := moderation.Human(7, "mod")

	err := svc.ApplyAction(context.Background(), mod, moderation.ActionInput{
		TargetType: "user", TargetID: place.ID, Action: moderation.ManualRemove,
	})
	if !errors.Is(err, moderation.ErrInvalidTarget) {
		t.Errorf("bad target type: err = %v, want ErrInvalidTarget", err)
	}

	err = svc.ApplyAction(context.Background(), mod, moderation.ActionInput{
		TargetType: moderation.TargetPlace, TargetID: place.ID, Action: "escalate",
	})
	if !errors.Is(err, moderation.ErrInvalidAction) {
		t.Errorf("bad action: err = %v, want ErrInvalidAction", err)
	}

	err = svc.ApplyAction(context.Background(), mod, moderation.ActionInput{
		TargetType: moderation.TargetPlace, TargetID: 999, Action: moderation.ManualRemove,
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing target: err = %v, want ErrNotFound", err)
	}

	if len(ts.AuditLog()) != 0 {
		t.Error("audit log written by rejected actions")
	}
	if got := ts.Place(place.ID); got.Status != store.PlaceStatusApproved {
		t.Errorf("place status changed by rejected action: %q", got.Status)
	}
}

func TestQueueJoinsTargetSnapshots(t *testing.T) {
	ts := storetest.New()
	svc := newService(ts)
	place := ts.SeedPlace(store.Place{Name: "Night Market", City: "Pokhara"})
	comment := ts.SeedComment(store.Comment{PlaceID: place.ID, UserID: 2, Text: "scam stall"})

	fileReports(t, ts, moderation.TargetPlace, place.ID, 1)
	fileReports(t, ts, moderation.TargetComment, comment.ID, 1)

	// A report whose target no longer exists.
	ghost := &store.Report{TargetType: moderation.TargetPlace, TargetID: 9999, ReporterID: 50, Reason: "other"}
	if err := ts.Reports.Create(context.Background(), ghost); err != nil {
		t.Fatalf("creating ghost report: %v", err)
	}

	queue, err := svc.Queue(context.Background())
	if err != nil {
		t.Fatalf("Queue: %v", err)
	}
	if len(queue) != 3 {
		t.Fatalf("queue has %d items, want 3", len(queue))
	}

	var placeItems, commentItems, missing int
	for _, item := range queue {
		switch {
		case item.Missing:
			missing++
		case item.Place != nil:
			placeItems++
			if item.Place.Name != place.Name {
				t.Errorf("place snapshot name = %q", item.Place.Name)
			}
		case item.Comment != nil:
			commentItems++
			if item.Comment.Text != comment.Text {
				t.Errorf("comment snapshot text = %q", item.Comment.Text)
			}
		}
	}
	if placeItems != 1 || commentItems != 1 || missing != 1 {
		t.Errorf("queue breakdown = %d place, %d comment, %d missing", placeItems, commentItems, missing)
	}
}
