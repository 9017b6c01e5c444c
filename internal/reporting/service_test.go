package reporting_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"whereto/internal/moderation"
	"whereto/internal/ratelimiter"
	"whereto/internal/reporting"
	"whereto/internal/store"
	"whereto/internal/store/storetest"
)

type stubLimiter struct {
	allowed bool
	err     error
}

func (l *stubLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return l.allowed, l.err
}

func newService(ts *storetest.Store, limiter ratelimiter.Limiter) *reporting.Service {
	logger := zap.NewNop().Sugar()
	mod := moderation.NewService(ts.Places, ts.Comments, ts.Reports, ts.Actions, logger)
	return reporting.NewService(ts.Places, ts.Comments, ts.Reports, mod, limiter, reporting.DefaultBudget, logger)
}

func TestFileReportCountsOpenReports(t *testing.T) {
	ts := storetest.New()
	svc := newService(ts, ratelimiter.Disabled{})
	place := ts.SeedPlace(store.Place{Name: "Fake Viewpoint", City: "Pokhara"})

	open, err := svc.FileReport(context.Background(), 10, reporting.Input{
		TargetType: moderation.TargetPlace,
		TargetID:   place.ID,
		Reason:     "misleading_or_fake",
		Details:    "photos are from another city",
	})
	if err != nil {
		t.Fatalf("FileReport: %v", err)
	}
	if open != 1 {
		t.Errorf("open = %d, want 1", open)
	}
	if got := ts.Place(place.ID); got.ReportCount != 1 {
		t.Errorf("place report count = %d, want 1", got.ReportCount)
	}
}

func TestFileReportThirdReportFlagsPlace(t *testing.T) {
	ts := storetest.New()
	svc := newService(ts, ratelimiter.Disabled{})
	place := ts.SeedPlace(store.Place{Name: "Fake Viewpoint", City: "Pokhara"})

	for i, reporter := range []int64{10, 11, 12} {
		open, err := svc.FileReport(context.Background(), reporter, reporting.Input{
			TargetType: moderation.TargetPlace,
			TargetID:   place.ID,
			Reason:     "spam_or_scam",
		})
		if err != nil {
			t.Fatalf("report %d: %v", i+1, err)
		}
		if open != i+1 {
			t.Errorf("report %d: open = %d, want %d", i+1, open, i+1)
		}
	}

	got := ts.Place(place.ID)
	if got.Status != store.PlaceStatusFlagged {
		t.Errorf("place status = %q, want flagged", got.Status)
	}
	if got.ReportCount != 3 {
		t.Errorf("report count = %d, want 3", got.ReportCount)
	}

	// The flag closes all three reports as reviewed.
	open, _ := ts.Reports.CountOpen(context.Background(), moderation.TargetPlace, place.ID)
	if open != 0 {
		t.Errorf("open reports after flag = %d, want 0", open)
	}
	log := ts.AuditLog()
	if len(log) != 1 || log[0].Action != moderation.ActionAutoFlag {
		t.Fatalf("audit log = %+v, want one auto_flag entry", log)
	}
}

func TestFileReportDuplicateReporter(t *testing.T) {
	ts := storetest.New()
	svc := newService(ts, ratelimiter.Disabled{})
	place := ts.SeedPlace(store.Place{Name: "Fake Viewpoint", City: "Pokhara"})

	in := reporting.Input{TargetType: moderation.TargetPlace, TargetID: place.ID, Reason: "other"}
	if _, err := svc.FileReport(context.Background(), 10, in); err != nil {
		t.Fatalf("first report: %v", err)
	}
	_, err := svc.FileReport(context.Background(), 10, in)
	if !errors.Is(err, reporting.ErrAlreadyReported) {
		t.Fatalf("duplicate report: err = %v, want ErrAlreadyReported", err)
	}

	if got := ts.Place(place.ID); got.ReportCount != 1 {
		t.Errorf("report count = %d after rejected duplicate, want 1", got.ReportCount)
	}
}

func TestFileReportValidation(t *testing.T) {
	ts := storetest.New()
	svc := newService(ts, ratelimiter.Disabled{})
	place := ts.SeedPlace(store.Place{Name: "Somewhere", City: "Pokhara"})

	_, err := svc.FileReport(context.Background(), 10, reporting.Input{
		TargetType: "user", TargetID: place.ID, Reason: "other",
	})
	if !errors.Is(err, reporting.ErrInvalidTarget) {
		t.Errorf("bad target: err = %v, want ErrInvalidTarget", err)
	}

	_, err = svc.FileReport(context.Background(), 10, reporting.Input{
		TargetType: moderation.TargetPlace, TargetID: place.ID, Reason: "i disagree",
	})
	if !errors.Is(err, reporting.ErrInvalidReason) {
		t.Errorf("bad reason: err = %v, want ErrInvalidReason", err)
	}

	_, err = svc.FileReport(context.Background(), 10, reporting.Input{
		TargetType: moderation.TargetPlace, TargetID: 999, Reason: "other",
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing target: err = %v, want ErrNotFound", err)
	}
}

func TestFileReportRemovedTargetNotReportable(t *testing.T) {
	ts := storetest.New()
	svc := newService(ts, ratelimiter.Disabled{})
	place := ts.SeedPlace(store.Place{Name: "Gone", City: "Pokhara", Status: store.PlaceStatusRemoved})

	_, err := svc.FileReport(context.Background(), 10, reporting.Input{
		TargetType: moderation.TargetPlace, TargetID: place.ID, Reason: "other",
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("removed target: err = %v, want ErrNotFound", err)
	}
}

func TestFileReportSanitizesDetails(t *testing.T) {
	ts := storetest.New()
	svc := newService(ts, ratelimiter.Disabled{})
	place := ts.SeedPlace(store.Place{Name: "Somewhere", City: "Pokhara"})

	long := strings.Repeat("a", 600)
	_, err := svc.FileReport(context.Background(), 10, reporting.Input{
		TargetType: moderation.TargetPlace,
		TargetID:   place.ID,
		Reason:     "other",
		Details:    "<script>alert(1)</script>" + long,
	})
	if err != nil {
		t.Fatalf("FileReport: %v", err)
	}

	reports, _ := ts.Reports.ListOpen(context.Background(), 10)
	if len(reports) != 1 {
		t.Fatalf("reports = %d, want 1", len(reports))
	}
	details := reports[0].Details
	if strings.Contains(details, "<script>") {
		t.Error("details kept markup")
	}
	if len([]rune(details)) > 500 {
		t.Errorf("details length = %d, want <= 500", len([]rune(details)))
	}
}

func TestFileReportRateLimited(t *testing.T) {
	ts := storetest.New()
	svc := newService(ts, &stubLimiter{allowed: false})
	place := ts.SeedPlace(store.Place{Name: "Somewhere", City: "Pokhara"})

	_, err := svc.FileReport(context.Background(), 10, reporting.Input{
		TargetType: moderation.TargetPlace, TargetID: place.ID, Reason: "other",
	})
	if !errors.Is(err, reporting.ErrRateLimited) {
		t.Fatalf("throttled report: err = %v, want ErrRateLimited", err)
	}
}

func TestFileReportLimiterFailureAllows(t *testing.T) {
	ts := storetest.New()
	svc := newService(ts, &stubLimiter{err: errors.New("limiter down")})
	place := ts.SeedPlace(store.Place{Name: "Somewhere", City: "Pokhara"})

	open, err := svc.FileReport(context.Background(), 10, reporting.Input{
		TargetType: moderation.TargetPlace, TargetID: place.ID, Reason: "other",
	})
	if err != nil {
		t.Fatalf("report with broken limiter: %v", err)
	}
	if open != 1 {
		t.Errorf("open = %d, want 1", open)
	}
}
