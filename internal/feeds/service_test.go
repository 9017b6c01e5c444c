package feeds_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"whereto/internal/feeds"
	"whereto/internal/store"
	"whereto/internal/store/storetest"
)

func seedCity(ts *storetest.Store) {
	now := time.Now()
	ts.SeedPlace(store.Place{
		ID: 1, Name: "Lakeside Walk", City: "Pokhara", Category: "Nature",
		Score: 0.95, Upvotes: 40, Downvotes: 2,
		Tags:      []string{"sunset", "walk", "free", "family"},
		ImageURLs: []string{"https://img.example/lake-1.jpg", "https://img.example/lake-2.jpg"},
		CreatedAt: now.Add(-72 * time.Hour),
	})
	ts.SeedPlace(store.Place{
		ID: 2, Name: "Tiny Momo Stall", City: "Pokhara", Category: "Food",
		Score: 0.9, Upvotes: 8, Downvotes: 1,
		CreatedAt: now.Add(-48 * time.Hour),
	})
	ts.SeedPlace(store.Place{
		ID: 3, Name: "New Rooftop Cafe", City: "Pokhara", Category: "Cafes",
		Score: 0.5, Upvotes: 15, Downvotes: 15,
		CreatedAt: now.Add(-time.Hour),
	})
	// Other city and non-approved places must never surface.
	ts.SeedPlace(store.Place{ID: 4, Name: "Elsewhere", City: "Kathmandu", Score: 0.99, CreatedAt: now})
	ts.SeedPlace(store.Place{ID: 5, Name: "Pending Spot", City: "Pokhara", Status: store.PlaceStatusPending, CreatedAt: now})
	ts.SeedPlace(store.Place{ID: 6, Name: "Removed Spot", City: "Pokhara", Status: store.PlaceStatusRemoved, CreatedAt: now})

	ts.SeedComment(store.Comment{PlaceID: 3, UserID: 9, Text: "great coffee", CreatedAt: now.Add(-10 * time.Minute)})
	ts.SeedComment(store.Comment{PlaceID: 2, UserID: 9, Text: "best momo in town", CreatedAt: now.Add(-2 * time.Hour)})
}

func TestExplore(t *testing.T) {
	ts := storetest.New()
	seedCity(ts)
	svc := feeds.NewService(ts.Feeds, zap.NewNop().Sugar())

	explore := svc.Explore(context.Background(), "Pokhara")

	if len(explore.Trending) != 3 {
		t.Fatalf("trending has %d cards, want 3", len(explore.Trending))
	}
	if explore.Trending[0].Name != "Lakeside Walk" {
		t.Errorf("top trending = %q, want Lakeside Walk", explore.Trending[0].Name)
	}

	if len(explore.Recent) == 0 || explore.Recent[0].Name != "New Rooftop Cafe" {
		t.Errorf("recent[0] = %+v, want New Rooftop Cafe first", explore.Recent)
	}

	// Hidden gems: score >= 0.8 with at most 10 votes. Lakeside Walk scores
	// higher but has too many votes to stay hidden.
	if len(explore.HiddenGems) != 1 || explore.HiddenGems[0].Name != "Tiny Momo Stall" {
		t.Errorf("hidden gems = %+v, want only Tiny Momo Stall", explore.HiddenGems)
	}

	if len(explore.ActiveDiscussions) != 2 {
		t.Fatalf("active discussions has %d cards, want 2", len(explore.ActiveDiscussions))
	}
	if explore.ActiveDiscussions[0].Name != "New Rooftop Cafe" {
		t.Errorf("most recently discussed = %q, want New Rooftop Cafe", explore.ActiveDiscussions[0].Name)
	}

	for _, card := range explore.Trending {
		if card.City != "Pokhara" {
			t.Errorf("card from wrong city: %+v", card)
		}
	}
}

func TestExploreCardProjection(t *testing.T) {
	ts := storetest.New()
	seedCity(ts)
	svc := feeds.NewService(ts.Feeds, zap.NewNop().Sugar())

	explore := svc.Explore(context.Background(), "Pokhara")
	card := explore.Trending[0]

	if card.Thumbnail != "https://img.example/lake-1.jpg" {
		t.Errorf("thumbnail = %q, want first image", card.Thumbnail)
	}
	if card.ScoreLabel != "Highly Recommended" {
		t.Errorf("score label = %q, want Highly Recommended", card.ScoreLabel)
	}
	if len(card.Tags) != 3 {
		t.Errorf("card carries %d tags, want at most 3", len(card.Tags))
	}
	if card.Slug == "" && card.ID == 0 {
		t.Error("card missing identity")
	}
}

func TestExploreEmptyCity(t *testing.T) {
	ts := storetest.New()
	svc := feeds.NewService(ts.Feeds, zap.NewNop().Sugar())

	explore := svc.Explore(context.Background(), "Nowhere")
	if len(explore.Trending) != 0 || len(explore.Recent) != 0 ||
		len(explore.HiddenGems) != 0 || len(explore.ActiveDiscussions) != 0 {
		t.Errorf("explore for empty city = %+v, want all views empty", explore)
	}
}

type failingFeeds struct {
	store.FeedsStore
}

func (f failingFeeds) ListHiddenGems(ctx context.Context, city string, limit int) ([]store.FeedPlace, error) {
	return nil, errors.New("query timeout")
}

func TestExploreDegradesPerView(t *testing.T) {
	ts := storetest.New()
	seedCity(ts)
	svc := feeds.NewService(failingFeeds{ts.Feeds}, zap.NewNop().Sugar())

	explore := svc.Explore(context.Background(), "Pokhara")
	if len(explore.HiddenGems) != 0 {
		t.Errorf("failing view returned cards: %+v", explore.HiddenGems)
	}
	if len(explore.Trending) == 0 {
		t.Error("healthy views were dropped alongside the failing one")
	}
}

func TestTrending(t *testing.T) {
	ts := storetest.New()
	seedCity(ts)
	svc := feeds.NewService(ts.Feeds, zap.NewNop().Sugar())

	cards, err := svc.Trending(context.Background(), "Pokhara", 2)
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("trending has %d cards, want 2", len(cards))
	}
	if cards[0].Score < cards[1].Score {
		t.Errorf("trending not ordered by score: %v then %v", cards[0].Score, cards[1].Score)
	}
}

func TestTrendingLimitBounds(t *testing.T) {
	ts := storetest.New()
	for i := 0; i < 25; i++ {
		ts.SeedPlace(store.Place{
			Name:  fmt.Sprintf("Spot %d", i),
			City:  "Pokhara",
			Score: 0.5,
		})
	}
	svc := feeds.NewService(ts.Feeds, zap.NewNop().Sugar())

	// Missing or invalid limits fall back to the default page size.
	for _, limit := range []int{0, -1} {
		cards, err := svc.Trending(context.Background(), "Pokhara", limit)
		if err != nil {
			t.Fatalf("Trending(limit=%d): %v", limit, err)
		}
		if len(cards) != 10 {
			t.Errorf("limit %d returned %d cards, want 10", limit, len(cards))
		}
	}

	// Oversized limits clamp to the maximum rather than resetting.
	cards, err := svc.Trending(context.Background(), "Pokhara", 50)
	if err != nil {
		t.Fatalf("Trending(limit=50): %v", err)
	}
	if len(cards) != 20 {
		t.Errorf("limit 50 returned %d cards, want 20", len(cards))
	}
}
