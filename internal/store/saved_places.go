package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SavedPlace is a bookmark with a snapshot of the place for list rendering.
type SavedPlace struct {
	PlaceID   int64     `json:"place_id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	Category  string    `json:"category"`
	Score     float64   `json:"score"`
	ImageURLs []string  `json:"image_urls"`
	SavedAt   time.Time `json:"saved_at"`
}

type SavedPlacesRepository struct {
	db *pgxpool.Pool
}

func (r *SavedPlacesRepository) Exists(ctx context.Context, userID, placeID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM saved_places WHERE user_id = $1 AND place_id = $2
		)
	`
	err := r.db.QueryRow(ctx, query, userID, placeID).Scan(&exists)
	return exists, err
}

func (r *SavedPlacesRepository) Add(ctx context.Context, userID, placeID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		INSERT INTO saved_places (user_id, place_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, userID, placeID)
	return err
}

func (r *SavedPlacesRepository) Remove(ctx context.Context, userID, placeID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `DELETE FROM saved_places WHERE user_id = $1 AND place_id = $2`
	_, err := r.db.Exec(ctx, query, userID, placeID)
	return err
}

func (r *SavedPlacesRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]SavedPlace, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT p.id, p.slug, p.name, p.city, p.category, p.score, p.image_urls, s.created_at
		FROM saved_places s
		JOIN places p ON p.id = s.place_id
		WHERE s.user_id = $1
		ORDER BY s.created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var saved []SavedPlace
	for rows.Next() {
		var s SavedPlace
		if err := rows.Scan(&s.PlaceID, &s.Slug, &s.Name, &s.City, &s.Category, &s.Score, &s.ImageURLs, &s.SavedAt); err != nil {
			return nil, err
		}
		saved = append(saved, s)
	}
	return saved, rows.Err()
}
