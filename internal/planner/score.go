package planner

import (
	"sort"
	"strings"

	"github.com/tripwise/tripwise/internal/places"
)

// Scoring weights and thresholds.
const (
	interestMatchScore = 2.0
	baseScore          = 1.0
	hiddenGemBonus     = 3.0
	topRatingBonus     = 1.0
	goodRatingBonus    = 0.5
	highCostPenalty    = 0.5
	highCostThreshold  = 8000
)

// ScoreAttractions assigns a priority score to every attraction and returns
// them sorted descending by score, ties broken by ascending cost. This
// ordering is the sole admission order used by the scheduler.
func ScoreAttractions(attractions []places.Spot, interests []string) []ScoredSpot {
	interestSet := make(map[string]struct{}, len(interests))
	for _, tag := range interests {
		interestSet[strings.ToLower(strings.TrimSpace(tag))] = struct{}{}
	}

	scored := make([]ScoredSpot, 0, len(attractions))
	for _, spot := range attractions {
		scored = append(scored, ScoredSpot{
			Spot:  spot,
			Score: scoreSpot(spot, interestSet),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].EstimatedCost < scored[j].EstimatedCost
	})

	return scored
}

func scoreSpot(spot places.Spot, interests map[string]struct{}) float64 {
	score := baseScore
	if _, ok := interests[strings.ToLower(spot.Category)]; ok {
		score = interestMatchScore
	}

	if spot.IsHidden {
		score += hiddenGemBonus
	}

	switch {
	case spot.Rating > 4.5:
		score += topRatingBonus
	case spot.Rating > 4.0:
		score += goodRatingBonus
	}

	if spot.EstimatedCost > highCostThreshold {
		score -= highCostPenalty
	}

	if score < 0 {
		score = 0
	}
	return score
}
