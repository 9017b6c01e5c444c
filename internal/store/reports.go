package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	ReportStatusOpen      = "open"
	ReportStatusReviewed  = "reviewed"
	ReportStatusDismissed = "dismissed"
)

// Report is keyed uniquely by (reporter_id, target_type, target_id), so a user
// can report a given piece of content once. Once closed a report never reopens.
type Report struct {
	ID           int64      `json:"id"`
	TargetType   string     `json:"target_type"`
	TargetID     int64      `json:"target_id"`
	ReporterID   int64      `json:"reporter_id"`
	ReporterName string     `json:"reporter_name,omitempty"`
	Reason       string     `json:"reason"`
	Details      string     `json:"details,omitempty"`
	Status       string     `json:"status"`
	ActionTaken  string     `json:"action_taken"`
	CreatedAt    time.Time  `json:"created_at"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy   *int64     `json:"reviewed_by,omitempty"`
}

type ReportsRepository struct {
	db *pgxpool.Pool
}

func (r *ReportsRepository) Create(ctx context.Context, report *Report) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		INSERT INTO reports (target_type, target_id, reporter_id, reason, details, status, action_taken)
		VALUES ($1, $2, $3, $4, $5, 'open', 'none')
		RETURNING id, status, action_taken, created_at
	`
	err := r.db.QueryRow(ctx, query,
		report.TargetType,
		report.TargetID,
		report.ReporterID,
		report.Reason,
		report.Details,
	).Scan(&report.ID, &report.Status, &report.ActionTaken, &report.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (r *ReportsRepository) GetByID(ctx context.Context, reportID int64) (*Report, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT id, target_type, target_id, reporter_id, reason, details, status,
		       action_taken, created_at, reviewed_at, reviewed_by
		FROM reports
		WHERE id = $1
	`
	var report Report
	err := r.db.QueryRow(ctx, query, reportID).Scan(
		&report.ID, &report.TargetType, &report.TargetID, &report.ReporterID,
		&report.Reason, &report.Details, &report.Status, &report.ActionTaken,
		&report.CreatedAt, &report.ReviewedAt, &report.ReviewedBy,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (r *ReportsRepository) CountOpen(ctx context.Context, targetType string, targetID int64) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var count int
	query := `
		SELECT COUNT(*) FROM reports
		WHERE target_type = $1 AND target_id = $2 AND status = 'open'
	`
	err := r.db.QueryRow(ctx, query, targetType, targetID).Scan(&count)
	return count, err
}

func (r *ReportsRepository) ListOpen(ctx context.Context, limit int) ([]Report, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT r.id, r.target_type, r.target_id, r.reporter_id, u.username, r.reason,
		       r.details, r.status, r.action_taken, r.created_at
		FROM reports r
		JOIN users u ON u.id = r.reporter_id
		WHERE r.status = 'open'
		ORDER BY r.created_at DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var report Report
		if err := rows.Scan(
			&report.ID, &report.TargetType, &report.TargetID, &report.ReporterID,
			&report.ReporterName, &report.Reason, &report.Details, &report.Status,
			&report.ActionTaken, &report.CreatedAt,
		); err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// Close closes a single report. Already-closed reports are left untouched so
// a report never reopens or changes its recorded outcome.
func (r *ReportsRepository) Close(ctx context.Context, reportID int64, status, actionTaken string, reviewedBy *int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		UPDATE reports
		SET status = $1, action_taken = $2, reviewed_at = now(), reviewed_by = $3
		WHERE id = $4 AND status = 'open'
	`
	_, err := r.db.Exec(ctx, query, status, actionTaken, reviewedBy, reportID)
	return err
}

func (r *ReportsRepository) CloseAllOpen(ctx context.Context, targetType string, targetID int64, status, actionTaken string, reviewedBy *int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		UPDATE reports
		SET status = $1, action_taken = $2, reviewed_at = now(), reviewed_by = $3
		WHERE target_type = $4 AND target_id = $5 AND status = 'open'
	`
	_, err := r.db.Exec(ctx, query, status, actionTaken, reviewedBy, targetType, targetID)
	return err
}
