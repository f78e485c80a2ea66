package models

import (
	"github.com/tripwise/tripwise/internal/itinerary"
	"github.com/tripwise/tripwise/internal/places"
	"github.com/tripwise/tripwise/internal/planner"
)

const dateLayout = "2006-01-02"

// GenerateItineraryRequest is the request body for POST /v1/itineraries:generate.
type GenerateItineraryRequest struct {
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Budget      float64  `json:"budget"`
	Interests   []string `json:"interests,omitempty"`
	TravelType  string   `json:"travelType,omitempty"`
}

// ToRawTripRequest converts the DTO into the planner's unvalidated request.
func (r GenerateItineraryRequest) ToRawTripRequest() planner.RawTripRequest {
	return planner.RawTripRequest{
		Origin:      r.Origin,
		Destination: r.Destination,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Budget:      r.Budget,
		Interests:   r.Interests,
		TravelType:  r.TravelType,
	}
}

// SpotInfo is a compact view of a candidate place.
type SpotInfo struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	EstimatedCost float64 `json:"estimatedCost"`
	Rating        float64 `json:"rating"`
	HiddenGem     bool    `json:"hiddenGem,omitempty"`
}

// HotelInfo describes the selected lodging.
type HotelInfo struct {
	Name          string  `json:"name"`
	PricePerNight float64 `json:"pricePerNight"`
	Rating        float64 `json:"rating"`
	Nights        int     `json:"nights"`
	TotalCost     float64 `json:"totalCost"`
	Selection     string  `json:"selection"`
}

// WeatherInfo is the forecast attached to an outdoor activity.
type WeatherInfo struct {
	Condition string  `json:"condition"`
	TempC     float64 `json:"tempC"`
}

// ItineraryActivity is one timed entry in a day plan.
type ItineraryActivity struct {
	Time          string       `json:"time"`
	Label         string       `json:"label"`
	Category      string       `json:"category"`
	DurationHours float64      `json:"durationHours"`
	Cost          float64      `json:"cost"`
	Weather       *WeatherInfo `json:"weather,omitempty"`
	HiddenGem     bool         `json:"hiddenGem,omitempty"`
}

// ItineraryDay is the ordered schedule for one calendar day.
type ItineraryDay struct {
	Day        int                 `json:"day"`
	Date       string              `json:"date"`
	Activities []ItineraryActivity `json:"activities"`
}

// CostBreakdown is the reconciled per-category spend.
type CostBreakdown struct {
	Accommodation float64 `json:"accommodation"`
	Activities    float64 `json:"activities"`
	Meals         float64 `json:"meals"`
	Total         float64 `json:"total"`
}

// BudgetEnvelope is the per-category budget split applied to the trip.
type BudgetEnvelope struct {
	Accommodation float64 `json:"accommodation"`
	Activities    float64 `json:"activities"`
	Meals         float64 `json:"meals"`
}

// ItinerarySummary carries headline numbers for the itinerary.
type ItinerarySummary struct {
	BudgetUtilization float64 `json:"budgetUtilization"`
	HiddenGemCount    int     `json:"hiddenGemCount"`
	PredictedSpend    float64 `json:"predictedSpend"`
	DistanceKm        float64 `json:"distanceKm"`
	TravelHours       float64 `json:"travelHours"`
}

// ItineraryAlternates lists candidates that were considered but not scheduled.
type ItineraryAlternates struct {
	Hotels      []SpotInfo `json:"hotels"`
	Attractions []SpotInfo `json:"attractions"`
}

// Itinerary is the full response for a generated or fetched itinerary.
type Itinerary struct {
	ID          string              `json:"id"`
	Origin      string              `json:"origin"`
	Destination string              `json:"destination"`
	StartDate   string              `json:"startDate"`
	EndDate     string              `json:"endDate"`
	Budget      float64             `json:"budget"`
	Envelope    BudgetEnvelope      `json:"envelope"`
	Hotel       *HotelInfo          `json:"hotel,omitempty"`
	Days        []ItineraryDay      `json:"days"`
	Costs       CostBreakdown       `json:"costs"`
	Summary     ItinerarySummary    `json:"summary"`
	Alternates  ItineraryAlternates `json:"alternates"`
	CreatedAt   Timestamp           `json:"createdAt"`
}

// ItineraryListItem is the compact per-itinerary view for list responses.
type ItineraryListItem struct {
	ID          string    `json:"id"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	TotalCost   float64   `json:"totalCost"`
	CreatedAt   Timestamp `json:"createdAt"`
}

// PagedItineraries is a paginated list of saved itineraries.
type PagedItineraries struct {
	Items []ItineraryListItem `json:"items"`
	Meta  PagedResponseMeta   `json:"meta"`
}

// NewItinerary builds the response DTO from a stored record.
func NewItinerary(rec *itinerary.Record) Itinerary {
	plan := rec.Plan

	out := Itinerary{
		ID:          rec.ID,
		Origin:      plan.Request.Origin,
		Destination: plan.Request.Destination,
		StartDate:   plan.Request.StartDate.Format(dateLayout),
		EndDate:     plan.Request.EndDate.Format(dateLayout),
		Budget:      plan.Request.Budget,
		Envelope: BudgetEnvelope{
			Accommodation: plan.Envelope.Accommodation,
			Activities:    plan.Envelope.Activities,
			Meals:         plan.Envelope.Meals,
		},
		Days: make([]ItineraryDay, 0, len(plan.Days)),
		Costs: CostBreakdown{
			Accommodation: plan.Costs.Accommodation,
			Activities:    plan.Costs.Activities,
			Meals:         plan.Costs.Meals,
			Total:         plan.Costs.Total,
		},
		Summary: ItinerarySummary{
			BudgetUtilization: plan.Summary.BudgetUtilization,
			HiddenGemCount:    plan.Summary.HiddenGemCount,
			PredictedSpend:    plan.Summary.PredictedSpend,
			DistanceKm:        plan.Summary.DistanceKm,
			TravelHours:       plan.Summary.TravelHours,
		},
		Alternates: ItineraryAlternates{
			Hotels:      newSpotInfos(plan.Alternates.Hotels),
			Attractions: newSpotInfos(plan.Alternates.Attractions),
		},
		CreatedAt: Timestamp(rec.CreatedAt),
	}

	if plan.Hotel != nil {
		out.Hotel = &HotelInfo{
			Name:          plan.Hotel.Spot.Name,
			PricePerNight: plan.Hotel.Spot.EstimatedCost,
			Rating:        plan.Hotel.Spot.Rating,
			Nights:        plan.Hotel.Nights,
			TotalCost:     plan.Hotel.TotalCost,
			Selection:     string(plan.Hotel.Selection),
		}
	}

	for _, day := range plan.Days {
		out.Days = append(out.Days, newItineraryDay(day))
	}

	return out
}

// NewItineraryListItem builds the compact list view from a stored record.
func NewItineraryListItem(rec *itinerary.Record) ItineraryListItem {
	return ItineraryListItem{
		ID:          rec.ID,
		Origin:      rec.Origin,
		Destination: rec.Destination,
		StartDate:   rec.StartDate.Format(dateLayout),
		EndDate:     rec.EndDate.Format(dateLayout),
		TotalCost:   rec.TotalCost,
		CreatedAt:   Timestamp(rec.CreatedAt),
	}
}

func newItineraryDay(day planner.DayPlan) ItineraryDay {
	out := ItineraryDay{
		Day:        day.Day,
		Date:       day.Date.Format(dateLayout),
		Activities: make([]ItineraryActivity, 0, len(day.Activities)),
	}
	for _, act := range day.Activities {
		entry := ItineraryActivity{
			Time:          act.TimeOfDay(),
			Label:         act.Label,
			Category:      act.Category,
			DurationHours: act.DurationHours,
			Cost:          act.Cost,
			HiddenGem:     act.IsHiddenGem,
		}
		if act.Weather != nil {
			entry.Weather = &WeatherInfo{
				Condition: string(act.Weather.Condition),
				TempC:     act.Weather.TempC,
			}
		}
		out.Activities = append(out.Activities, entry)
	}
	return out
}

func newSpotInfos(spots []places.Spot) []SpotInfo {
	out := make([]SpotInfo, 0, len(spots))
	for _, s := range spots {
		out = append(out, SpotInfo{
			Name:          s.Name,
			Category:      s.Category,
			EstimatedCost: s.EstimatedCost,
			Rating:        s.Rating,
			HiddenGem:     s.IsHidden,
		})
	}
	return out
}
