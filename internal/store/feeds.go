package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// FeedPlace is the read-side row behind every discovery feed: the place plus
// its live comment count.
type FeedPlace struct {
	ID                 int64     `json:"id"`
	Slug               string    `json:"slug"`
	Name               string    `json:"name"`
	City               string    `json:"city"`
	Category           string    `json:"category"`
	Score              float64   `json:"score"`
	Tags               []string  `json:"tags"`
	ImageURLs          []string  `json:"image_urls"`
	Upvotes            int       `json:"upvotes"`
	Downvotes          int       `json:"downvotes"`
	VisitConfirmations int       `json:"visit_confirmations"`
	CommentCount       int       `json:"comment_count"`
	CreatedAt          time.Time `json:"created_at"`
}

type FeedsRepository struct {
	db *pgxpool.Pool
}

const feedSelect = `
	SELECT p.id, p.slug, p.name, p.city, p.category, p.score, p.tags, p.image_urls,
	       p.upvotes, p.downvotes, p.visit_confirmations,
	       (SELECT COUNT(*) FROM comments c
	        WHERE c.place_id = p.id AND (c.status = 'active' OR c.status IS NULL)) AS comment_count,
	       p.created_at
	FROM places p
`

func (r *FeedsRepository) ListTrending(ctx context.Context, city string, limit int) ([]FeedPlace, error) {
	query := feedSelect + `
		WHERE p.city = $1 AND p.status = 'approved'
		ORDER BY p.score DESC, p.upvotes DESC
		LIMIT $2
	`
	return r.list(ctx, query, city, limit)
}

func (r *FeedsRepository) ListRecent(ctx context.Context, city string, limit int) ([]FeedPlace, error) {
	query := feedSelect + `
		WHERE p.city = $1 AND p.status = 'approved'
		ORDER BY p.created_at DESC
		LIMIT $2
	`
	return r.list(ctx, query, city, limit)
}

func (r *FeedsRepository) ListHiddenGems(ctx context.Context, city string, limit int) ([]FeedPlace, error) {
	query := feedSelect + `
		WHERE p.city = $1 AND p.status = 'approved'
		  AND p.score >= 0.8
		  AND p.upvotes + p.downvotes <= 10
		ORDER BY p.score DESC
		LIMIT $2
	`
	return r.list(ctx, query, city, limit)
}

// ListActiveDiscussions groups comments per place, finds the most recently
// discussed places and joins back to the approved places in the city.
func (r *FeedsRepository) ListActiveDiscussions(ctx context.Context, city string, limit int) ([]FeedPlace, error) {
	query := `
		SELECT p.id, p.slug, p.name, p.city, p.category, p.score, p.tags, p.image_urls,
		       p.upvotes, p.downvotes, p.visit_confirmations, d.comment_count, p.created_at
		FROM (
			SELECT place_id, COUNT(*) AS comment_count, MAX(created_at) AS last_comment
			FROM comments
			WHERE status = 'active' OR status IS NULL
			GROUP BY place_id
		) d
		JOIN places p ON p.id = d.place_id
		WHERE p.city = $1 AND p.status = 'approved'
		ORDER BY d.last_comment DESC
		LIMIT $2
	`
	return r.list(ctx, query, city, limit)
}

func (r *FeedsRepository) ListTopPlaces(ctx context.Context, city string, limit int) ([]FeedPlace, error) {
	query := feedSelect + `
		WHERE p.city = $1 AND p.status = 'approved'
		ORDER BY p.score DESC, p.visit_confirmations DESC, p.created_at DESC
		LIMIT $2
	`
	return r.list(ctx, query, city, limit)
}

func (r *FeedsRepository) list(ctx context.Context, query, city string, limit int) ([]FeedPlace, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, city, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var places []FeedPlace
	for rows.Next() {
		var p FeedPlace
		if err := rows.Scan(
			&p.ID, &p.Slug, &p.Name, &p.City, &p.Category, &p.Score, &p.Tags,
			&p.ImageURLs, &p.Upvotes, &p.Downvotes, &p.VisitConfirmations,
			&p.CommentCount, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		places = append(places, p)
	}
	return places, rows.Err()
}
