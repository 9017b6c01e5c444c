package ranking

import "math"

// Score maps raw vote tallies to a normalized approval ratio in [0,1],
// rounded to two decimals. A place with no votes scores exactly 0, which
// display code treats as "no votes yet" rather than a 0% rating.
func Score(upvotes, downvotes int) float64 {
	total := upvotes + downvotes
	if total == 0 {
		return 0
	}
	return math.Round(float64(upvotes)/float64(total)*100) / 100
}

// ScoreLabel returns the human label shown next to a score.
func ScoreLabel(score float64) string {
	switch {
	case score >= 0.9:
		return "Highly Recommended"
	case score >= 0.7:
		return "Recommended"
	case score >= 0.5:
		return "Mixed"
	case score > 0:
		return "Not Recommended"
	default:
		return "No votes yet"
	}
}

// ScorePercentage converts a score to a whole percentage.
func ScorePercentage(score float64) int {
	return int(math.Round(score * 100))
}

// IsHiddenGem reports whether a place is high quality but still under-voted.
func IsHiddenGem(score float64, upvotes, downvotes int) bool {
	total := upvotes + downvotes
	return score >= 0.8 && total > 0 && total <= 10
}

// IsControversial reports whether a place has heavy support on both sides.
func IsControversial(upvotes, downvotes int) bool {
	return upvotes >= 5 && downvotes >= 5
}

// Karma is a user's contribution signal: places added plus upvotes received.
func Karma(placesCount, upvotesReceived int) int {
	return placesCount + upvotesReceived
}
