// Package places provides point-of-interest data for trip destinations,
// combining a public place provider with a curated hidden-spot store.
package places

import (
	"errors"
	"strings"

	"github.com/tripwise/tripwise/pkg/geo"
)

// Sentinel errors for place lookups.
var (
	// ErrProviderUnavailable indicates the place provider is down or the
	// circuit breaker is open.
	ErrProviderUnavailable = errors.New("place provider unavailable")
)

// Category names with special scheduling behavior. Every other category
// ("nature", "heritage", "adventure", ...) is treated as an attraction.
const (
	CategoryHotel      = "hotel"
	CategoryRestaurant = "restaurant"
)

// Spot is a single point of interest at a destination. Name is the unique
// key within one planning run.
type Spot struct {
	// Name of the spot, unique within one planning run.
	Name string

	// Category is the spot kind: "hotel", "restaurant", or an interest
	// category such as "nature" or "heritage".
	Category string

	// Location of the spot.
	Location geo.Point

	// AvgVisitHours is the typical visit duration.
	AvgVisitHours float64

	// EstimatedCost per visit (per night for hotels), in currency units.
	EstimatedCost float64

	// Rating on a 0-5 scale.
	Rating float64

	// Tags carry free-form descriptors from the data source.
	Tags []string

	// IsHidden is true only for spots returned by the hidden-spot store.
	// It is never inferred from tags.
	IsHidden bool
}

// IsHotel reports whether the spot is lodging.
func (s Spot) IsHotel() bool {
	return strings.EqualFold(s.Category, CategoryHotel)
}

// IsRestaurant reports whether the spot serves meals.
func (s Spot) IsRestaurant() bool {
	return strings.EqualFold(s.Category, CategoryRestaurant)
}

// IsAttraction reports whether the spot is anything other than lodging or
// dining.
func (s Spot) IsAttraction() bool {
	return !s.IsHotel() && !s.IsRestaurant()
}
