package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	CommentStatusActive  = "active"
	CommentStatusFlagged = "flagged"
	CommentStatusRemoved = "removed"
)

// Comment sort modes for listing.
const (
	CommentSortHelpful = "helpful"
	CommentSortRecent  = "recent"
)

type Comment struct {
	ID          int64     `json:"id"`
	PlaceID     int64     `json:"place_id"`
	UserID      int64     `json:"user_id"`
	Username    string    `json:"username"`
	Text        string    `json:"text"`
	Upvotes     int       `json:"upvotes"`
	Status      string    `json:"status"`
	ReportCount int       `json:"report_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// CommentSummary is the snapshot shape shown in the moderation queue.
type CommentSummary struct {
	ID          int64  `json:"id"`
	PlaceID     int64  `json:"place_id"`
	Text        string `json:"text"`
	Username    string `json:"username"`
	Status      string `json:"status"`
	ReportCount int    `json:"report_count"`
}

type CommentsRepository struct {
	db *pgxpool.Pool
}

func (r *CommentsRepository) Create(ctx context.Context, comment *Comment) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		INSERT INTO comments (place_id, user_id, username, text, status)
		VALUES ($1, $2, $3, $4, 'active')
		RETURNING id, status, created_at
	`
	return r.db.QueryRow(ctx, query,
		comment.PlaceID,
		comment.UserID,
		comment.Username,
		comment.Text,
	).Scan(&comment.ID, &comment.Status, &comment.CreatedAt)
}

func (r *CommentsRepository) GetByID(ctx context.Context, commentID int64) (*Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT id, place_id, user_id, username, text, upvotes, COALESCE(status, 'active'), report_count, created_at
		FROM comments
		WHERE id = $1
	`
	var comment Comment
	err := r.db.QueryRow(ctx, query, commentID).Scan(
		&comment.ID, &comment.PlaceID, &comment.UserID, &comment.Username,
		&comment.Text, &comment.Upvotes, &comment.Status, &comment.ReportCount,
		&comment.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// ListVisible returns active comments for a place. Rows written before the
// status column existed have it NULL and stay visible.
func (r *CommentsRepository) ListVisible(ctx context.Context, placeID int64, sort string, page, limit int) ([]Comment, int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	orderBy := `upvotes DESC, created_at DESC`
	if sort == CommentSortRecent {
		orderBy = `created_at DESC`
	}

	query := `
		SELECT id, place_id, user_id, username, text, upvotes, COALESCE(status, 'active'), report_count, created_at
		FROM comments
		WHERE place_id = $1 AND (status = 'active' OR status IS NULL)
		ORDER BY ` + orderBy + `
		LIMIT $2 OFFSET $3
	`
	offset := (page - 1) * limit
	rows, err := r.db.Query(ctx, query, placeID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var comment Comment
		if err := rows.Scan(
			&comment.ID, &comment.PlaceID, &comment.UserID, &comment.Username,
			&comment.Text, &comment.Upvotes, &comment.Status, &comment.ReportCount,
			&comment.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	countQuery := `
		SELECT COUNT(*) FROM comments
		WHERE place_id = $1 AND (status = 'active' OR status IS NULL)
	`
	if err := r.db.QueryRow(ctx, countQuery, placeID).Scan(&total); err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (r *CommentsRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var count int
	query := `
		SELECT COUNT(*) FROM comments
		WHERE user_id = $1 AND (status IS NULL OR status != 'removed')
	`
	err := r.db.QueryRow(ctx, query, userID).Scan(&count)
	return count, err
}

func (r *CommentsRepository) IncrementUpvotes(ctx context.Context, commentID int64) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var upvotes int
	query := `UPDATE comments SET upvotes = upvotes + 1 WHERE id = $1 RETURNING upvotes`
	err := r.db.QueryRow(ctx, query, commentID).Scan(&upvotes)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return upvotes, nil
}

func (r *CommentsRepository) SetStatus(ctx context.Context, commentID int64, status string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	result, err := r.db.Exec(ctx, `UPDATE comments SET status = $1 WHERE id = $2`, status, commentID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CommentsRepository) SetReportCount(ctx context.Context, commentID int64, count int) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := r.db.Exec(ctx, `UPDATE comments SET report_count = $1 WHERE id = $2`, count, commentID)
	return err
}

func (r *CommentsRepository) SetReportState(ctx context.Context, commentID int64, count int, status string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `UPDATE comments SET report_count = $1, status = $2 WHERE id = $3`
	_, err := r.db.Exec(ctx, query, count, status, commentID)
	return err
}

func (r *CommentsRepository) Summaries(ctx context.Context, ids []int64) (map[int64]CommentSummary, error) {
	if len(ids) == 0 {
		return map[int64]CommentSummary{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT id, place_id, text, username, COALESCE(status, 'active'), report_count
		FROM comments
		WHERE id = ANY($1)
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make(map[int64]CommentSummary, len(ids))
	for rows.Next() {
		var s CommentSummary
		if err := rows.Scan(&s.ID, &s.PlaceID, &s.Text, &s.Username, &s.Status, &s.ReportCount); err != nil {
			return nil, err
		}
		summaries[s.ID] = s
	}
	return summaries, rows.Err()
}
