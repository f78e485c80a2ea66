package planner_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripwise/tripwise/internal/budget"
	"github.com/tripwise/tripwise/internal/places"
	"github.com/tripwise/tripwise/internal/planner"
	"github.com/tripwise/tripwise/internal/weather"
	"github.com/tripwise/tripwise/pkg/geo"
)

func threeDayRequest() planner.TripRequest {
	return planner.TripRequest{
		Origin:      "Kochi",
		Destination: "Munnar",
		StartDate:   time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		Budget:      15000,
		Interests:   []string{"nature"},
		TravelType:  "family",
	}
}

func testEnvelope() budget.Envelope {
	return budget.Envelope{
		Accommodation:  7500,
		Activities:     4500,
		Meals:          3000,
		MaxHotelBudget: 9000,
	}
}

func testHotel() *planner.ChosenHotel {
	return &planner.ChosenHotel{
		Spot: places.Spot{
			Name:          "Hillview Inn",
			Category:      places.CategoryHotel,
			Location:      geo.Point{Lat: 10.08, Lon: 77.06},
			EstimatedCost: 2000,
			Rating:        4.4,
		},
		Nights:    2,
		TotalCost: 4000,
		Selection: planner.HotelSelectionStrict,
	}
}

func testAttractions() []planner.ScoredSpot {
	mk := func(name string, cost, visit, lat, lon float64, hidden bool) planner.ScoredSpot {
		return planner.ScoredSpot{
			Spot: places.Spot{
				Name:          name,
				Category:      "nature",
				Location:      geo.Point{Lat: lat, Lon: lon},
				AvgVisitHours: visit,
				EstimatedCost: cost,
				Rating:        4.2,
				IsHidden:      hidden,
			},
		}
	}
	return []planner.ScoredSpot{
		mk("Secret Falls", 200, 2, 10.10, 77.10, true),
		mk("Eravikulam National Park", 400, 3, 10.20, 77.00, false),
		mk("Tea Museum", 100, 2, 10.00, 77.00, false),
		mk("Top Station", 150, 2, 10.12, 77.25, false),
	}
}

func testRestaurants() []places.Spot {
	mk := func(name string, cost float64) places.Spot {
		return places.Spot{
			Name:          name,
			Category:      places.CategoryRestaurant,
			Location:      geo.Point{Lat: 10.09, Lon: 77.06},
			EstimatedCost: cost,
			Rating:        4.0,
		}
	}
	return []places.Spot{
		mk("Royal Diner", 400),
		mk("Saravana", 150),
		mk("Spice Garden", 250),
		mk("Hill Cafe", 450),
		mk("Valley Kitchen", 500),
		mk("Green Leaf", 550),
	}
}

func activitiesOfCategory(day planner.DayPlan, category string) []planner.ScheduledActivity {
	var matched []planner.ScheduledActivity
	for _, activity := range day.Activities {
		if activity.Category == category {
			matched = append(matched, activity)
		}
	}
	return matched
}

func buildThreeDay(t *testing.T) planner.ScheduleResult {
	t.Helper()
	return planner.BuildSchedule(planner.ScheduleConfig{
		Request:     threeDayRequest(),
		Envelope:    testEnvelope(),
		Hotel:       testHotel(),
		Attractions: testAttractions(),
		Restaurants: testRestaurants(),
		TravelHours: 4.0,
	})
}

func TestBuildSchedule_ThreeDayShape(t *testing.T) {
	result := buildThreeDay(t)
	require.Len(t, result.Days, 3)

	day1 := result.Days[0]
	require.NotEmpty(t, day1.Activities)
	assert.Equal(t, planner.CategoryTravel, day1.Activities[0].Category)
	assert.Equal(t, 8.0, day1.Activities[0].Hour)
	assert.Equal(t, "08:00", day1.Activities[0].TimeOfDay())

	// Arriving at 12:00 skips same-day check-in; one evening attraction fits.
	attractions := activitiesOfCategory(day1, "nature")
	require.Len(t, attractions, 1)
	assert.True(t, attractions[0].IsHiddenGem)
	assert.Equal(t, "Secret Falls", attractions[0].Label)

	lastDay := result.Days[2]
	final := lastDay.Activities[len(lastDay.Activities)-1]
	assert.Equal(t, planner.CategoryArrival, final.Category)
	assert.Zero(t, final.DurationHours)
}

func TestBuildSchedule_NoDuplicateNames(t *testing.T) {
	result := buildThreeDay(t)

	seen := make(map[string]int)
	for _, day := range result.Days {
		for _, activity := range day.Activities {
			switch activity.Category {
			case "nature":
				seen[activity.Label]++
			case planner.CategoryMeal:
				// meal labels read "Lunch at <restaurant>"
				parts := strings.SplitN(activity.Label, " at ", 2)
				require.Len(t, parts, 2)
				seen[parts[1]]++
			}
		}
	}
	for name, count := range seen {
		assert.Equal(t, 1, count, "spot %q scheduled more than once", name)
	}
}

func TestBuildSchedule_OutdoorLegalityWindow(t *testing.T) {
	result := buildThreeDay(t)

	for _, day := range result.Days {
		for _, activity := range day.Activities {
			if activity.Category != "nature" {
				continue
			}
			assert.GreaterOrEqual(t, activity.Hour, 7.0, "%s starts too early", activity.Label)
			assert.LessOrEqual(t, activity.Hour+activity.DurationHours, 18.0, "%s ends too late", activity.Label)
		}
	}
}

func TestBuildSchedule_TravelSubEntryPrecedesAttraction(t *testing.T) {
	result := buildThreeDay(t)

	// Middle day attractions start from a located previous stop, so each
	// carries a travel hop immediately before it.
	day2 := result.Days[1]
	for i, activity := range day2.Activities {
		if activity.Category != "nature" {
			continue
		}
		require.Greater(t, i, 0)
		prev := day2.Activities[i-1]
		assert.Equal(t, planner.CategoryTravel, prev.Category)
		assert.GreaterOrEqual(t, prev.DurationHours, geo.MinTravelHours)
		assert.InDelta(t, prev.Hour+prev.DurationHours, activity.Hour, 0.001)
	}
}

func TestBuildSchedule_CostsAndCounts(t *testing.T) {
	result := buildThreeDay(t)

	assert.InDelta(t, 850, result.ActivitiesCost, 0.001) // all four attractions fit
	assert.InDelta(t, 2300, result.MealsCost, 0.001)     // six meals, cheapest first
	assert.Equal(t, 1, result.HiddenGemCount)
	assert.Empty(t, result.UnusedAttractions)
}

func TestBuildSchedule_OvernightMarkers(t *testing.T) {
	result := buildThreeDay(t)

	for _, day := range result.Days[:2] {
		last := day.Activities[len(day.Activities)-1]
		assert.Equal(t, planner.CategoryStay, last.Category)
		assert.Equal(t, 22.0, last.Hour)
	}
	for _, activity := range result.Days[2].Activities {
		assert.NotEqual(t, planner.CategoryStay, activity.Category)
	}
}

func TestBuildSchedule_SingleDay(t *testing.T) {
	request := threeDayRequest()
	request.EndDate = request.StartDate

	result := planner.BuildSchedule(planner.ScheduleConfig{
		Request:     request,
		Envelope:    budget.Envelope{Activities: 3000, Meals: 2000},
		Attractions: testAttractions(),
		Restaurants: testRestaurants(),
		TravelHours: 2.0,
	})

	require.Len(t, result.Days, 1)
	day := result.Days[0]

	assert.Equal(t, planner.CategoryTravel, day.Activities[0].Category)
	assert.Equal(t, 8.0, day.Activities[0].Hour)

	final := day.Activities[len(day.Activities)-1]
	assert.Equal(t, planner.CategoryArrival, final.Category)

	for _, activity := range day.Activities {
		assert.NotEqual(t, planner.CategoryStay, activity.Category)
		assert.NotEqual(t, planner.CategoryCheckIn, activity.Category)
	}
}

func TestBuildSchedule_EmptyCollaboratorListsOmitSlots(t *testing.T) {
	result := planner.BuildSchedule(planner.ScheduleConfig{
		Request:     threeDayRequest(),
		Envelope:    testEnvelope(),
		Hotel:       testHotel(),
		TravelHours: 4.0,
	})

	require.Len(t, result.Days, 3)
	assert.Zero(t, result.ActivitiesCost)
	assert.Zero(t, result.MealsCost)
	assert.Zero(t, result.HiddenGemCount)

	// Travel legs and hotel markers still appear.
	assert.Equal(t, planner.CategoryTravel, result.Days[0].Activities[0].Category)
}

func TestBuildSchedule_ActivityBudgetGate(t *testing.T) {
	attractions := testAttractions()
	envelope := testEnvelope()
	envelope.Activities = 250 // only the first candidate fits

	result := planner.BuildSchedule(planner.ScheduleConfig{
		Request:     threeDayRequest(),
		Envelope:    envelope,
		Hotel:       testHotel(),
		Attractions: attractions,
		Restaurants: testRestaurants(),
		TravelHours: 4.0,
	})

	assert.InDelta(t, 200, result.ActivitiesCost, 0.001)
	assert.Len(t, result.UnusedAttractions, 3)
}

func TestBuildSchedule_EveningStartIncludesHop(t *testing.T) {
	hotel := testHotel()
	mk := func(name string, loc geo.Point) planner.ScoredSpot {
		return planner.ScoredSpot{Spot: places.Spot{
			Name:          name,
			Category:      "nature",
			Location:      loc,
			AvgVisitHours: 1,
			EstimatedCost: 100,
			Rating:        4.2,
		}}
	}
	far := mk("Ridge Lookout", geo.Point{Lat: hotel.Spot.Location.Lat + 1, Lon: hotel.Spot.Location.Lon})
	near := mk("Garden Walk", hotel.Spot.Location)

	result := planner.BuildSchedule(planner.ScheduleConfig{
		Request:     threeDayRequest(),
		Envelope:    testEnvelope(),
		Hotel:       hotel,
		Attractions: []planner.ScoredSpot{far, near},
		Restaurants: testRestaurants(),
		TravelHours: 6.0, // arrive 14:00, check in, evening slot opens 14:30
	})

	// The far candidate is ~111 km from the hotel; its hop would push the
	// start past 16:30, so the nearer one takes the evening slot.
	day1 := activitiesOfCategory(result.Days[0], "nature")
	require.Len(t, day1, 1)
	assert.Equal(t, "Garden Walk", day1[0].Label)
	assert.LessOrEqual(t, day1[0].Hour, 16.5)

	// Skipped, not dropped: the far candidate lands on the middle day.
	day2 := activitiesOfCategory(result.Days[1], "nature")
	require.Len(t, day2, 1)
	assert.Equal(t, "Ridge Lookout", day2[0].Label)
	assert.Empty(t, result.UnusedAttractions)
}

func TestBuildSchedule_DailyActivityHoursCap(t *testing.T) {
	hotel := testHotel()
	mk := func(name string) planner.ScoredSpot {
		return planner.ScoredSpot{Spot: places.Spot{
			Name:          name,
			Category:      "nature",
			Location:      hotel.Spot.Location,
			AvgVisitHours: 4,
			EstimatedCost: 100,
			Rating:        4.0,
		}}
	}

	result := planner.BuildSchedule(planner.ScheduleConfig{
		Request:  threeDayRequest(),
		Envelope: testEnvelope(),
		Hotel:    hotel,
		Attractions: []planner.ScoredSpot{
			mk("Cascade Trail"), mk("Cloud Forest"), mk("Bamboo Grove"), mk("Lakeside Path"),
		},
		Restaurants: testRestaurants(),
		TravelHours: 4.0,
	})

	// Two four-hour visits plus hops fill the middle day; the next
	// candidate would fit the 13:00 slot but exceeds ten activity hours.
	day2 := activitiesOfCategory(result.Days[1], "nature")
	require.Len(t, day2, 2)

	day3 := activitiesOfCategory(result.Days[2], "nature")
	require.Len(t, day3, 1)
	assert.Equal(t, "Lakeside Path", day3[0].Label)
	assert.Empty(t, result.UnusedAttractions)
}

func TestBuildSchedule_WeatherAttachedToAttractions(t *testing.T) {
	result := planner.BuildSchedule(planner.ScheduleConfig{
		Request:     threeDayRequest(),
		Envelope:    testEnvelope(),
		Hotel:       testHotel(),
		Attractions: testAttractions(),
		Restaurants: testRestaurants(),
		TravelHours: 4.0,
		Weather: func(location geo.Point, date time.Time) *weather.Snapshot {
			snap := weather.PlaceholderSnapshot(date)
			return &snap
		},
	})

	for _, day := range result.Days {
		for _, activity := range day.Activities {
			if activity.Category == "nature" {
				require.NotNil(t, activity.Weather)
				assert.True(t, activity.Weather.Date.Equal(day.Date))
			}
		}
	}
}
