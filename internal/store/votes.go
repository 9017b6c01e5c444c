package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Vote directions.
const (
	VoteUp   = 1
	VoteDown = -1
)

// Vote is keyed by (user_id, place_id); the table carries a unique constraint
// on that pair so a user holds at most one vote per place.
type Vote struct {
	UserID    int64     `json:"user_id"`
	PlaceID   int64     `json:"place_id"`
	Value     int       `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

type VotesRepository struct {
	db *pgxpool.Pool
}

func (r *VotesRepository) Get(ctx context.Context, userID, placeID int64) (*Vote, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT user_id, place_id, value, created_at
		FROM votes
		WHERE user_id = $1 AND place_id = $2
	`
	var vote Vote
	err := r.db.QueryRow(ctx, query, userID, placeID).Scan(
		&vote.UserID, &vote.PlaceID, &vote.Value, &vote.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &vote, nil
}

func (r *VotesRepository) Create(ctx context.Context, vote *Vote) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		INSERT INTO votes (user_id, place_id, value)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query, vote.UserID, vote.PlaceID, vote.Value).Scan(&vote.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (r *VotesRepository) SetValue(ctx context.Context, userID, placeID int64, value int) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `UPDATE votes SET value = $1 WHERE user_id = $2 AND place_id = $3`
	result, err := r.db.Exec(ctx, query, value, userID, placeID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByPlace recomputes the vote tallies from the vote rows themselves,
// which is what keeps the cached counters on places self-healing.
func (r *VotesRepository) CountByPlace(ctx context.Context, placeID int64) (int, int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var upvotes, downvotes int
	query := `
		SELECT COUNT(*) FILTER (WHERE value = 1),
		       COUNT(*) FILTER (WHERE value = -1)
		FROM votes
		WHERE place_id = $1
	`
	err := r.db.QueryRow(ctx, query, placeID).Scan(&upvotes, &downvotes)
	return upvotes, downvotes, err
}
