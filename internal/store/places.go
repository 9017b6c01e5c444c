package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	PlaceStatusPending  = "pending"
	PlaceStatusApproved = "approved"
	PlaceStatusFlagged  = "flagged"
	PlaceStatusRemoved  = "removed"
)

var PlaceCategories = []string{
	"Food",
	"Cafes",
	"Viewpoints",
	"Nature",
	"Study Spots",
	"Culture",
	"Hidden Gems",
	"Night Spots",
}

func IsValidCategory(category string) bool {
	for _, c := range PlaceCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Place is a community-submitted place of interest. The vote tallies, score,
// report_count and visit_confirmations columns are cached aggregates; every
// mutation path recomputes them from their source rows.
type Place struct {
	ID                 int64      `json:"id"`
	Slug               string     `json:"slug"`
	Name               string     `json:"name"`
	City               string     `json:"city"`
	Lat                float64    `json:"lat"`
	Lng                float64    `json:"lng"`
	Description        string     `json:"description"`
	Category           string     `json:"category"`
	Tags               []string   `json:"tags"`
	BestTime           string     `json:"best_time,omitempty"`
	ImageURLs          []string   `json:"image_urls"`
	Upvotes            int        `json:"upvotes"`
	Downvotes          int        `json:"downvotes"`
	Score              float64    `json:"score"`
	Status             string     `json:"status"`
	LastVerifiedAt     *time.Time `json:"last_verified_at,omitempty"`
	VisitConfirmations int        `json:"visit_confirmations"`
	ReportCount        int        `json:"report_count"`
	CreatedBy          int64      `json:"created_by"`
	CreatorName        string     `json:"creator_name,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// PlaceSummary is the snapshot shape shown in the moderation queue.
type PlaceSummary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	City        string `json:"city"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	ReportCount int    `json:"report_count"`
}

type PlaceFilter struct {
	City     string
	Category string
	Page     int
	Limit    int
}

type PlacesRepository struct {
	db *pgxpool.Pool
}

func (r *PlacesRepository) Create(ctx context.Context, place *Place) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		INSERT INTO places (name, city, lat, lng, description, category, tags, best_time, image_urls, score, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		place.Name,
		place.City,
		place.Lat,
		place.Lng,
		place.Description,
		place.Category,
		place.Tags,
		place.BestTime,
		place.ImageURLs,
		place.Score,
		place.Status,
		place.CreatedBy,
	).Scan(&place.ID, &place.CreatedAt)
	if err != nil {
		return err
	}

	slug, err := EncodeSlug(place.ID)
	if err != nil {
		return err
	}
	place.Slug = slug

	_, err = r.db.Exec(ctx, `UPDATE places SET slug = $1 WHERE id = $2`, slug, place.ID)
	return err
}

func (r *PlacesRepository) GetByID(ctx context.Context, placeID int64) (*Place, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT p.id, p.slug, p.name, p.city, p.lat, p.lng, p.description, p.category, p.tags,
		       p.best_time, p.image_urls, p.upvotes, p.downvotes, p.score, p.status,
		       p.last_verified_at, p.visit_confirmations, p.report_count, p.created_by,
		       u.username, p.created_at
		FROM places p
		JOIN users u ON u.id = p.created_by
		WHERE p.id = $1
	`
	var place Place
	err := r.db.QueryRow(ctx, query, placeID).Scan(
		&place.ID, &place.Slug, &place.Name, &place.City, &place.Lat, &place.Lng,
		&place.Description, &place.Category, &place.Tags, &place.BestTime,
		&place.ImageURLs, &place.Upvotes, &place.Downvotes, &place.Score,
		&place.Status, &place.LastVerifiedAt, &place.VisitConfirmations,
		&place.ReportCount, &place.CreatedBy, &place.CreatorName, &place.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &place, nil
}

func (r *PlacesRepository) List(ctx context.Context, filter PlaceFilter) ([]Place, int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT p.id, p.slug, p.name, p.city, p.lat, p.lng, p.description, p.category, p.tags,
		       p.best_time, p.image_urls, p.upvotes, p.downvotes, p.score, p.status,
		       p.last_verified_at, p.visit_confirmations, p.report_count, p.created_by,
		       u.username, p.created_at
		FROM places p
		JOIN users u ON u.id = p.created_by
		WHERE p.city = $1
		  AND p.status = 'approved'
		  AND ($2 = '' OR p.category = $2)
		ORDER BY p.created_at DESC
		LIMIT $3 OFFSET $4
	`
	offset := (filter.Page - 1) * filter.Limit
	rows, err := r.db.Query(ctx, query, filter.City, filter.Category, filter.Limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var places []Place
	for rows.Next() {
		var place Place
		if err := rows.Scan(
			&place.ID, &place.Slug, &place.Name, &place.City, &place.Lat, &place.Lng,
			&place.Description, &place.Category, &place.Tags, &place.BestTime,
			&place.ImageURLs, &place.Upvotes, &place.Downvotes, &place.Score,
			&place.Status, &place.LastVerifiedAt, &place.VisitConfirmations,
			&place.ReportCount, &place.CreatedBy, &place.CreatorName, &place.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		places = append(places, place)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	countQuery := `
		SELECT COUNT(*) FROM places
		WHERE city = $1 AND status = 'approved' AND ($2 = '' OR category = $2)
	`
	if err := r.db.QueryRow(ctx, countQuery, filter.City, filter.Category).Scan(&total); err != nil {
		return nil, 0, err
	}
	return places, total, nil
}

func (r *PlacesRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]Place, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT id, slug, name, city, lat, lng, description, category, tags, best_time,
		       image_urls, upvotes, downvotes, score, status, last_verified_at,
		       visit_confirmations, report_count, created_by, created_at
		FROM places
		WHERE created_by = $1 AND status != 'removed'
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var places []Place
	for rows.Next() {
		var place Place
		if err := rows.Scan(
			&place.ID, &place.Slug, &place.Name, &place.City, &place.Lat, &place.Lng,
			&place.Description, &place.Category, &place.Tags, &place.BestTime,
			&place.ImageURLs, &place.Upvotes, &place.Downvotes, &place.Score,
			&place.Status, &place.LastVerifiedAt, &place.VisitConfirmations,
			&place.ReportCount, &place.CreatedBy, &place.CreatedAt,
		); err != nil {
			return nil, err
		}
		places = append(places, place)
	}
	return places, rows.Err()
}

func (r *PlacesRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var count int
	query := `SELECT COUNT(*) FROM places WHERE created_by = $1 AND status != 'removed'`
	err := r.db.QueryRow(ctx, query, userID).Scan(&count)
	return count, err
}

func (r *PlacesRepository) CountUpvotesReceived(ctx context.Context, userID int64) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var count int
	query := `
		SELECT COALESCE(SUM(upvotes), 0) FROM places
		WHERE created_by = $1 AND status != 'removed'
	`
	err := r.db.QueryRow(ctx, query, userID).Scan(&count)
	return count, err
}

func (r *PlacesRepository) SetVoteCounts(ctx context.Context, placeID int64, upvotes, downvotes int, score float64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `UPDATE places SET upvotes = $1, downvotes = $2, score = $3 WHERE id = $4`
	result, err := r.db.Exec(ctx, query, upvotes, downvotes, score, placeID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PlacesRepository) SetStatus(ctx context.Context, placeID int64, status string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	result, err := r.db.Exec(ctx, `UPDATE places SET status = $1 WHERE id = $2`, status, placeID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PlacesRepository) SetReportCount(ctx context.Context, placeID int64, count int) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := r.db.Exec(ctx, `UPDATE places SET report_count = $1 WHERE id = $2`, count, placeID)
	return err
}

func (r *PlacesRepository) SetReportState(ctx context.Context, placeID int64, count int, status string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `UPDATE places SET report_count = $1, status = $2 WHERE id = $3`
	_, err := r.db.Exec(ctx, query, count, status, placeID)
	return err
}

func (r *PlacesRepository) SetVisitStats(ctx context.Context, placeID int64, confirmations int, verifiedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `UPDATE places SET visit_confirmations = $1, last_verified_at = $2 WHERE id = $3`
	_, err := r.db.Exec(ctx, query, confirmations, verifiedAt, placeID)
	return err
}

func (r *PlacesRepository) Summaries(ctx context.Context, ids []int64) (map[int64]PlaceSummary, error) {
	if len(ids) == 0 {
		return map[int64]PlaceSummary{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT id, name, city, category, status, report_count
		FROM places
		WHERE id = ANY($1)
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make(map[int64]PlaceSummary, len(ids))
	for rows.Next() {
		var s PlaceSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.City, &s.Category, &s.Status, &s.ReportCount); err != nil {
			return nil, err
		}
		summaries[s.ID] = s
	}
	return summaries, rows.Err()
}
