package planner

import (
	"github.com/tripwise/tripwise/internal/places"
)

const relaxedBudgetFactor = 1.5

// hotelPass is one relaxation step of the hotel search.
type hotelPass struct {
	selection HotelSelection
	ceiling   func(maxHotelBudget float64) float64
}

// Passes run in order until one yields a hotel. The final pass ignores the
// budget entirely so a hotel is always found when any candidate exists.
var hotelPasses = []hotelPass{
	{HotelSelectionStrict, func(b float64) float64 { return b }},
	{HotelSelectionRelaxed, func(b float64) float64 { return b * relaxedBudgetFactor }},
	{HotelSelectionCheapest, nil},
}

// SelectHotel picks one lodging candidate for the trip, or nil for
// single-day trips or when no hotel candidates exist.
func SelectHotel(hotels []places.Spot, maxHotelBudget float64, durationDays int) *ChosenHotel {
	if durationDays <= 1 || len(hotels) == 0 {
		return nil
	}

	nights := durationDays - 1
	if nights < 1 {
		nights = 1
	}

	for _, pass := range hotelPasses {
		if pass.ceiling == nil {
			return cheapestHotel(hotels, nights)
		}
		if chosen := bestValueHotel(hotels, nights, pass.ceiling(maxHotelBudget), pass.selection); chosen != nil {
			return chosen
		}
	}
	return nil
}

// bestValueHotel picks the affordable hotel maximizing rating per price.
func bestValueHotel(hotels []places.Spot, nights int, ceiling float64, selection HotelSelection) *ChosenHotel {
	var best *ChosenHotel
	bestValue := -1.0

	for _, hotel := range hotels {
		totalCost := hotel.EstimatedCost * float64(nights)
		if totalCost > ceiling {
			continue
		}

		value := valueScore(hotel)
		if value > bestValue {
			bestValue = value
			best = &ChosenHotel{
				Spot:      hotel,
				Nights:    nights,
				TotalCost: totalCost,
				Selection: selection,
			}
		}
	}
	return best
}

// cheapestHotel is the last-resort pass: lowest nightly price wins.
func cheapestHotel(hotels []places.Spot, nights int) *ChosenHotel {
	var cheapest *places.Spot
	for i := range hotels {
		if cheapest == nil || hotels[i].EstimatedCost < cheapest.EstimatedCost {
			cheapest = &hotels[i]
		}
	}
	if cheapest == nil {
		return nil
	}
	return &ChosenHotel{
		Spot:      *cheapest,
		Nights:    nights,
		TotalCost: cheapest.EstimatedCost * float64(nights),
		Selection: HotelSelectionCheapest,
	}
}

// valueScore is rating per thousand currency units of nightly price,
// with prices under 1000 treated as 1000.
func valueScore(hotel places.Spot) float64 {
	price := hotel.EstimatedCost / 1000
	if price < 1 {
		price = 1
	}
	return hotel.Rating / price
}
