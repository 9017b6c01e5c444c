package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ModerationAction is an append-only audit row. ActorID is nil when the action
// was triggered automatically by community report thresholds; ActorName then
// holds the "community" sentinel.
type ModerationAction struct {
	ID         int64          `json:"id"`
	TargetType string         `json:"target_type"`
	TargetID   int64          `json:"target_id"`
	Action     string         `json:"action"`
	Reason     string         `json:"reason"`
	ActorID    *int64         `json:"actor_id,omitempty"`
	ActorName  string         `json:"actor_name"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

type ModerationActionsRepository struct {
	db *pgxpool.Pool
}

func (r *ModerationActionsRepository) Create(ctx context.Context, action *ModerationAction) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		INSERT INTO moderation_actions (target_type, target_id, action, reason, actor_id, actor_name, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, query,
		action.TargetType,
		action.TargetID,
		action.Action,
		action.Reason,
		action.ActorID,
		action.ActorName,
		action.Metadata,
	).Scan(&action.ID, &action.CreatedAt)
}

func (r *ModerationActionsRepository) ListByTarget(ctx context.Context, targetType string, targetID int64, limit int) ([]ModerationAction, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT id, target_type, target_id, action, reason, actor_id, actor_name, metadata, created_at
		FROM moderation_actions
		WHERE target_type = $1 AND target_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, targetType, targetID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []ModerationAction
	for rows.Next() {
		var action ModerationAction
		if err := rows.Scan(
			&action.ID, &action.TargetType, &action.TargetID, &action.Action,
			&action.Reason, &action.ActorID, &action.ActorName, &action.Metadata,
			&action.CreatedAt,
		); err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	return actions, rows.Err()
}
