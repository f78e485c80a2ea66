package planner

import (
	"strings"

	"github.com/tripwise/tripwise/internal/places"
	"github.com/tripwise/tripwise/pkg/geo"
)

// Deduplication thresholds. Two spots are duplicates when their names are
// near-identical, they sit almost on top of each other, or both signals are
// moderately strong at once.
const (
	dupNameSimilarity      = 0.8
	dupProximityKm         = 0.5
	dupCombinedSimilarity  = 0.6
	dupCombinedProximityKm = 2.0
)

// Candidates is the deduplicated candidate list partitioned by category.
type Candidates struct {
	Hotels      []places.Spot
	Restaurants []places.Spot
	Attractions []places.Spot
}

// AggregateCandidates merges popular and hidden spot lists, deduplicates
// them, and partitions the survivors by category. Hidden-list spots keep
// their hidden flag; popular spots are never retroactively marked hidden.
// The merge is keyed by exact name with first occurrence winning, so
// running the aggregation again over its own output is a no-op.
func AggregateCandidates(popular, hidden []places.Spot) Candidates {
	merged := mergeByName(popular, hidden)
	deduped := dedupe(merged)

	var c Candidates
	for _, spot := range deduped {
		switch {
		case spot.IsHotel():
			c.Hotels = append(c.Hotels, spot)
		case spot.IsRestaurant():
			c.Restaurants = append(c.Restaurants, spot)
		default:
			c.Attractions = append(c.Attractions, spot)
		}
	}
	return c
}

// mergeByName concatenates the lists keeping the first spot seen for each
// exact (case-insensitive) name.
func mergeByName(popular, hidden []places.Spot) []places.Spot {
	seen := make(map[string]struct{}, len(popular)+len(hidden))
	merged := make([]places.Spot, 0, len(popular)+len(hidden))

	for _, list := range [][]places.Spot{popular, hidden} {
		for _, spot := range list {
			key := strings.ToLower(strings.TrimSpace(spot.Name))
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, spot)
		}
	}
	return merged
}

// dedupe removes near-duplicate spots, keeping the earlier occurrence.
func dedupe(spots []places.Spot) []places.Spot {
	kept := make([]places.Spot, 0, len(spots))

	for _, candidate := range spots {
		duplicate := false
		for _, existing := range kept {
			if isDuplicate(candidate, existing) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, candidate)
		}
	}
	return kept
}

// isDuplicate applies the name-similarity and geo-proximity rules.
func isDuplicate(a, b places.Spot) bool {
	similarity := nameSimilarity(a.Name, b.Name)
	if similarity > dupNameSimilarity {
		return true
	}

	distance := geo.Haversine(a.Location, b.Location)
	if distance < dupProximityKm {
		return true
	}

	return similarity > dupCombinedSimilarity && distance < dupCombinedProximityKm
}
