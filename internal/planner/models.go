// Package planner builds day-by-day trip itineraries from place, routing,
// and weather collaborators under a per-category budget split.
package planner

import (
	"fmt"
	"math"
	"time"

	"github.com/tripwise/tripwise/internal/budget"
	"github.com/tripwise/tripwise/internal/places"
	"github.com/tripwise/tripwise/internal/weather"
)

// TripRequest is a validated itinerary request. Immutable once validated.
type TripRequest struct {
	Origin      string
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	Budget      float64
	Interests   []string
	TravelType  string
}

// DurationDays returns the trip length in calendar days, inclusive of both
// the start and end date.
func (r TripRequest) DurationDays() int {
	return int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
}

// PrimaryInterest returns the first interest tag, or empty.
func (r TripRequest) PrimaryInterest() string {
	if len(r.Interests) == 0 {
		return ""
	}
	return r.Interests[0]
}

// ScoredSpot pairs a candidate spot with its priority score.
// Scores are recomputed every request.
type ScoredSpot struct {
	places.Spot
	Score float64
}

// HotelSelection records which selection pass produced the chosen hotel.
type HotelSelection string

const (
	// HotelSelectionStrict means the hotel fit within the max hotel budget.
	HotelSelectionStrict HotelSelection = "strict"
	// HotelSelectionRelaxed means the 1.5x relaxed ceiling was needed.
	HotelSelectionRelaxed HotelSelection = "relaxed"
	// HotelSelectionCheapest means the cheapest hotel was taken regardless of budget.
	HotelSelectionCheapest HotelSelection = "cheapest"
)

// ChosenHotel is the selected lodging plus its computed total cost.
type ChosenHotel struct {
	Spot      places.Spot
	Nights    int
	TotalCost float64
	Selection HotelSelection
}

// Activity categories used in day plans.
const (
	CategoryTravel   = "travel"
	CategoryArrival  = "arrival"
	CategoryMeal     = "meal"
	CategoryCheckIn  = "hotel check-in"
	CategoryCheckOut = "hotel check-out"
	CategoryStay     = "overnight stay"
)

// ScheduledActivity is one timed entry in a day plan.
// Immutable once appended.
type ScheduledActivity struct {
	Hour          float64 // fractional clock hour, e.g. 16.5 for 16:30
	Label         string
	Category      string
	DurationHours float64
	Cost          float64
	Weather       *weather.Snapshot
	IsHiddenGem   bool
}

// TimeOfDay formats the activity start as HH:MM.
func (a ScheduledActivity) TimeOfDay() string {
	h := int(a.Hour)
	m := int(math.Round((a.Hour - float64(h)) * 60))
	if m == 60 {
		h++
		m = 0
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

// DayPlan is the ordered schedule for one calendar day.
type DayPlan struct {
	Day        int // 1-based
	Date       time.Time
	Activities []ScheduledActivity
}

// CostBreakdown is the reconciled per-category spend.
type CostBreakdown struct {
	Accommodation float64
	Activities    float64
	Meals         float64
	Total         float64
}

// Summary carries headline numbers for the itinerary.
type Summary struct {
	BudgetUtilization float64 // percent of budget spent, one decimal
	HiddenGemCount    int
	PredictedSpend    float64
	DistanceKm        float64
	TravelHours       float64
}

// Alternates lists candidates that were considered but not scheduled.
type Alternates struct {
	Hotels      []places.Spot
	Attractions []places.Spot
}

// Itinerary is the terminal artifact of one planning run.
type Itinerary struct {
	Request    TripRequest
	Envelope   budget.Envelope
	Hotel      *ChosenHotel
	Days       []DayPlan
	Costs      CostBreakdown
	Summary    Summary
	Alternates Alternates
}
