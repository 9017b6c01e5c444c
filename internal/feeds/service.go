// Package feeds assembles the read-side discovery views. The four explore
// views are independent queries fetched concurrently; a failing view degrades
// to an empty list rather than failing the whole feed.
package feeds

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"whereto/internal/ranking"
	"whereto/internal/store"
)

const (
	exploreLimit    = 8
	maxTrendingSize = 20
	maxCardTags     = 3
)

// Card is the compact projection every feed renders.
type Card struct {
	ID                 int64     `json:"id"`
	Slug               string    `json:"slug"`
	Name               string    `json:"name"`
	City               string    `json:"city"`
	Category           string    `json:"category"`
	Score              float64   `json:"score"`
	ScoreLabel         string    `json:"score_label"`
	Thumbnail          string    `json:"thumbnail,omitempty"`
	Tags               []string  `json:"tags,omitempty"`
	Upvotes            int       `json:"upvotes"`
	Downvotes          int       `json:"downvotes"`
	VisitConfirmations int       `json:"visit_confirmations"`
	CommentCount       int       `json:"comment_count"`
	CreatedAt          time.Time `json:"created_at"`
}

// Explore bundles the four discovery views for a city.
type Explore struct {
	Trending          []Card `json:"trending"`
	Recent            []Card `json:"recent"`
	HiddenGems        []Card `json:"hidden_gems"`
	ActiveDiscussions []Card `json:"active_discussions"`
}

type Service struct {
	feeds  store.FeedsStore
	logger *zap.SugaredLogger
}

func NewService(feeds store.FeedsStore, logger *zap.SugaredLogger) *Service {
	return &Service{feeds: feeds, logger: logger}
}

// Explore fetches the four views concurrently. Each view that fails is logged
// and left empty; the feed itself never errors.
func (s *Service) Explore(ctx context.Context, city string) Explore {
	type view struct {
		name  string
		query func(context.Context, string, int) ([]store.FeedPlace, error)
		out   *[]Card
	}

	var result Explore
	views := []view{
		{"trending", s.feeds.ListTrending, &result.Trending},
		{"recent", s.feeds.ListRecent, &result.Recent},
		{"hidden_gems", s.feeds.ListHiddenGems, &result.HiddenGems},
		{"active_discussions", s.feeds.ListActiveDiscussions, &result.ActiveDiscussions},
	}

	var wg sync.WaitGroup
	for i := range views {
		v := views[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			places, err := v.query(ctx, city, exploreLimit)
			if err != nil {
				s.logger.Warnw("feed view failed", "view", v.name, "city", city, "error", err)
				*v.out = []Card{}
				return
			}
			*v.out = toCards(places)
		}()
	}
	wg.Wait()

	return result
}

// Trending is the standalone sidebar feed: best-scored places, ties broken by
// visit confirmations then recency.
func (s *Service) Trending(ctx context.Context, city string, limit int) ([]Card, error) {
	if limit <= 0 {
		limit = 10
	} else if limit > maxTrendingSize {
		limit = maxTrendingSize
	}
	places, err := s.feeds.ListTopPlaces(ctx, city, limit)
	if err != nil {
		return nil, err
	}
	return toCards(places), nil
}

func toCards(places []store.FeedPlace) []Card {
	cards := make([]Card, 0, len(places))
	for _, p := range places {
		card := Card{
			ID:                 p.ID,
			Slug:               p.Slug,
			Name:               p.Name,
			City:               p.City,
			Category:           p.Category,
			Score:              p.Score,
			ScoreLabel:         ranking.ScoreLabel(p.Score),
			Upvotes:            p.Upvotes,
			Downvotes:          p.Downvotes,
			VisitConfirmations: p.VisitConfirmations,
			CommentCount:       p.CommentCount,
			CreatedAt:          p.CreatedAt,
		}
		if len(p.ImageURLs) > 0 {
			card.Thumbnail = p.ImageURLs[0]
		}
		if len(p.Tags) > maxCardTags {
			card.Tags = p.Tags[:maxCardTags]
		} else {
			card.Tags = p.Tags
		}
		cards = append(cards, card)
	}
	return cards
}
