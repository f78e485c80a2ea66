// Package itinerary persists generated trip plans.
package itinerary

import (
	"errors"
	"time"

	"github.com/tripwise/tripwise/internal/planner"
)

// Repository errors.
var (
	ErrItineraryNotFound = errors.New("itinerary not found")
)

// Record is a persisted itinerary with its owner and lookup metadata.
// The plan itself is stored as a document; the engine never reads it back
// during generation.
type Record struct {
	ID          string
	UserID      string
	Origin      string
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	TotalCost   float64
	Plan        planner.Itinerary
	CreatedAt   time.Time
}
