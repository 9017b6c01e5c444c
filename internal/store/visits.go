package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type VisitsRepository struct {
	db *pgxpool.Pool
}

// Create records that a user confirmed visiting a place. The (user_id,
// place_id) unique constraint makes a second confirmation surface ErrConflict.
func (r *VisitsRepository) Create(ctx context.Context, userID, placeID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `INSERT INTO visit_confirmations (user_id, place_id) VALUES ($1, $2)`
	_, err := r.db.Exec(ctx, query, userID, placeID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (r *VisitsRepository) CountByPlace(ctx context.Context, placeID int64) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var count int
	query := `SELECT COUNT(*) FROM visit_confirmations WHERE place_id = $1`
	err := r.db.QueryRow(ctx, query, placeID).Scan(&count)
	return count, err
}
