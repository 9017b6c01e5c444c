package ranking

import "testing"

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		upvotes   int
		downvotes int
		want      float64
	}{
		{"no votes is sentinel zero", 0, 0, 0},
		{"all upvotes", 10, 0, 1.0},
		{"even split", 1, 1, 0.5},
		{"rounds to two decimals", 7, 3, 0.70},
		{"rounds half up", 1, 7, 0.13},
		{"two thirds", 2, 1, 0.67},
		{"all downvotes", 0, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.upvotes, tt.downvotes); got != tt.want {
				t.Errorf("Score(%d, %d) = %v, want %v", tt.upvotes, tt.downvotes, got, tt.want)
			}
		})
	}
}

func TestScoreLabel(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{1.0, "Highly Recommended"},
		{0.9, "Highly Recommended"},
		{0.7, "Recommended"},
		{0.89, "Recommended"},
		{0.5, "Mixed"},
		{0.49, "Not Recommended"},
		{0.01, "Not Recommended"},
		{0, "No votes yet"},
	}

	for _, tt := range tests {
		if got := ScoreLabel(tt.score); got != tt.want {
			t.Errorf("ScoreLabel(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestScorePercentage(t *testing.T) {
	if got := ScorePercentage(0.67); got != 67 {
		t.Errorf("ScorePercentage(0.67) = %d, want 67", got)
	}
	if got := ScorePercentage(0); got != 0 {
		t.Errorf("ScorePercentage(0) = %d, want 0", got)
	}
}

func TestIsHiddenGem(t *testing.T) {
	tests := []struct {
		name      string
		score     float64
		upvotes   int
		downvotes int
		want      bool
	}{
		{"high score few votes", 0.9, 9, 1, true},
		{"exactly at boundaries", 0.8, 8, 2, true},
		{"too many votes", 0.9, 18, 2, false},
		{"score too low", 0.7, 7, 3, false},
		{"no votes at all", 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHiddenGem(tt.score, tt.upvotes, tt.downvotes); got != tt.want {
				t.Errorf("IsHiddenGem(%v, %d, %d) = %v, want %v", tt.score, tt.upvotes, tt.downvotes, got, tt.want)
			}
		})
	}
}

func TestIsControversial(t *testing.T) {
	if !IsControversial(5, 5) {
		t.Error("expected 5/5 to be controversial")
	}
	if IsControversial(20, 4) {
		t.Error("expected 20/4 not to be controversial")
	}
}

func TestKarma(t *testing.T) {
	if got := Karma(3, 12); got != 15 {
		t.Errorf("Karma(3, 12) = %d, want 15", got)
	}
}
