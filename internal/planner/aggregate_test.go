package planner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripwise/tripwise/internal/places"
	"github.com/tripwise/tripwise/internal/planner"
	"github.com/tripwise/tripwise/pkg/geo"
)

func spot(name, category string, lat, lon float64) places.Spot {
	return places.Spot{
		Name:          name,
		Category:      category,
		Location:      geo.Point{Lat: lat, Lon: lon},
		AvgVisitHours: 2,
		EstimatedCost: 300,
		Rating:        4.2,
	}
}

func TestAggregateCandidates_Partition(t *testing.T) {
	popular := []places.Spot{
		spot("Hotel Hillview", "hotel", 10.08, 77.06),
		spot("Saravana Bhavan", "restaurant", 10.09, 77.07),
		spot("Eravikulam National Park", "nature", 10.20, 77.00),
	}

	c := planner.AggregateCandidates(popular, nil)

	require.Len(t, c.Hotels, 1)
	require.Len(t, c.Restaurants, 1)
	require.Len(t, c.Attractions, 1)
	assert.Equal(t, "Eravikulam National Park", c.Attractions[0].Name)
}

func TestAggregateCandidates_HiddenFlagPreserved(t *testing.T) {
	hidden := spot("Secret Forest Trail", "nature", 10.30, 77.30)
	hidden.IsHidden = true

	c := planner.AggregateCandidates(
		[]places.Spot{spot("Eravikulam National Park", "nature", 10.20, 77.00)},
		[]places.Spot{hidden},
	)

	require.Len(t, c.Attractions, 2)
	assert.False(t, c.Attractions[0].IsHidden)
	assert.True(t, c.Attractions[1].IsHidden)
}

func TestAggregateCandidates_FirstOccurrenceWins(t *testing.T) {
	// The same name from the hidden query does not retroactively mark the
	// popular spot hidden.
	hidden := spot("Eravikulam National Park", "nature", 10.20, 77.00)
	hidden.IsHidden = true

	c := planner.AggregateCandidates(
		[]places.Spot{spot("Eravikulam National Park", "nature", 10.20, 77.00)},
		[]places.Spot{hidden},
	)

	require.Len(t, c.Attractions, 1)
	assert.False(t, c.Attractions[0].IsHidden)
}

func TestAggregateCandidates_NameSimilarityDuplicate(t *testing.T) {
	c := planner.AggregateCandidates([]places.Spot{
		spot("Mattupetty Dam", "nature", 10.10, 77.12),
		spot("Mattupetty Damm", "nature", 11.50, 78.50), // far away but near-identical name
	}, nil)

	assert.Len(t, c.Attractions, 1)
}

func TestAggregateCandidates_ProximityDuplicate(t *testing.T) {
	c := planner.AggregateCandidates([]places.Spot{
		spot("Tea Museum", "heritage", 10.0000, 77.0000),
		spot("Echo Point", "nature", 10.0027, 77.0000), // ~300m apart
	}, nil)

	assert.Len(t, c.Attractions, 1)
}

func TestAggregateCandidates_CombinedRule(t *testing.T) {
	// Moderate similarity and moderate proximity together are a duplicate.
	near := planner.AggregateCandidates([]places.Spot{
		spot("Echo Point View", "nature", 10.000, 77.000),
		spot("Echo Point Spot", "nature", 10.009, 77.000), // ~1km apart
	}, nil)
	assert.Len(t, near.Attractions, 1)

	// The same pair far apart survives.
	far := planner.AggregateCandidates([]places.Spot{
		spot("Echo Point View", "nature", 10.000, 77.000),
		spot("Echo Point Spot", "nature", 10.027, 77.000), // ~3km apart
	}, nil)
	assert.Len(t, far.Attractions, 2)
}

func TestAggregateCandidates_Idempotent(t *testing.T) {
	popular := []places.Spot{
		spot("Eravikulam National Park", "nature", 10.20, 77.00),
		spot("Tea Museum", "heritage", 10.00, 77.00),
		spot("Top Station", "nature", 10.12, 77.25),
	}

	first := planner.AggregateCandidates(popular, nil)
	second := planner.AggregateCandidates(first.Attractions, nil)

	assert.Equal(t, first.Attractions, second.Attractions)
}
