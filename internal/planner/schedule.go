package planner

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tripwise/tripwise/internal/budget"
	"github.com/tripwise/tripwise/internal/places"
	"github.com/tripwise/tripwise/internal/weather"
	"github.com/tripwise/tripwise/pkg/geo"
)

// Scheduling constants.
const (
	departureHour     = 8.0
	maxTravelLegHours = 12.0
	latestEveningSlot = 16.5
	dailyActivityCap  = 10.0
	mealDurationHours = 1.0
	// travel sub-entries shorter than this are folded into the visit
	minTravelSubEntry = 0.2
)

// Fixed template hours.
const (
	breakfastHour       = 7.5
	checkOutHour        = 8.5
	finalAttractionHour = 9.0
	lunchHour           = 12.0
	returnDepartureHour = 14.0
	dinnerHour          = 19.0
	overnightHour       = 22.0
)

// WeatherLookup resolves a weather snapshot for an attraction visit.
// A nil return attaches no snapshot; scheduling never fails on weather.
type WeatherLookup func(location geo.Point, date time.Time) *weather.Snapshot

// ScheduleConfig is the input to schedule construction.
type ScheduleConfig struct {
	Request     TripRequest
	Envelope    budget.Envelope
	Hotel       *ChosenHotel
	Attractions []ScoredSpot // in priority order; this order is the sole admission order
	Restaurants []places.Spot
	TravelHours float64 // one-way routed travel time
	Weather     WeatherLookup
}

// ScheduleResult is the built day plans plus accumulated spend.
type ScheduleResult struct {
	Days              []DayPlan
	ActivitiesCost    float64
	MealsCost         float64
	HiddenGemCount    int
	UnusedAttractions []places.Spot
}

// isActivityTimeRealistic reports whether an activity of the given category
// may start at the given clock hour.
func isActivityTimeRealistic(hour float64, category string) bool {
	switch category {
	case CategoryMeal:
		return (hour >= 7 && hour < 10) || (hour >= 12 && hour < 15) || (hour >= 18 && hour < 21)
	case CategoryCheckIn, CategoryCheckOut:
		return hour >= 14 || hour <= 12
	case CategoryTravel, CategoryArrival:
		return hour >= 6 && hour < 22
	default:
		// attractions and other outdoor categories
		return hour >= 7 && hour < 18
	}
}

// BuildSchedule runs the per-day templates and returns the assembled plans.
func BuildSchedule(cfg ScheduleConfig) ScheduleResult {
	b := &scheduleBuilder{
		cfg:       cfg,
		scheduled: make(map[string]struct{}),
		travel:    clampTravel(cfg.TravelHours),
	}

	// Meals always draw the cheapest unused restaurant first.
	b.restaurants = make([]places.Spot, len(cfg.Restaurants))
	copy(b.restaurants, cfg.Restaurants)
	sort.SliceStable(b.restaurants, func(i, j int) bool {
		return b.restaurants[i].EstimatedCost < b.restaurants[j].EstimatedCost
	})

	duration := cfg.Request.DurationDays()
	for day := 1; day <= duration; day++ {
		date := cfg.Request.StartDate.AddDate(0, 0, day-1)
		plan := DayPlan{Day: day, Date: date}

		switch {
		case duration == 1:
			b.buildSingleDay(&plan)
		case day == 1:
			b.buildFirstDay(&plan)
		case day == duration:
			b.buildLastDay(&plan)
		default:
			b.buildMiddleDay(&plan)
		}

		b.days = append(b.days, plan)
	}

	return ScheduleResult{
		Days:              b.days,
		ActivitiesCost:    b.activitiesSpent,
		MealsCost:         b.mealsSpent,
		HiddenGemCount:    b.hiddenGems,
		UnusedAttractions: b.unusedAttractions(),
	}
}

func clampTravel(hours float64) float64 {
	if hours > maxTravelLegHours {
		return maxTravelLegHours
	}
	if hours < 0 {
		return 0
	}
	return hours
}

// scheduleBuilder holds the per-request construction state. It is local to
// one BuildSchedule call and discarded afterwards.
type scheduleBuilder struct {
	cfg         ScheduleConfig
	restaurants []places.Spot
	days        []DayPlan
	travel      float64

	scheduled       map[string]struct{}
	activitiesSpent float64
	mealsSpent      float64
	hiddenGems      int

	// per-day state, reset at the start of each day
	hoursUsed    float64
	lastLocation *geo.Point
}

func (b *scheduleBuilder) resetDay() {
	b.hoursUsed = 0
	b.lastLocation = nil
	if b.cfg.Hotel != nil {
		loc := b.cfg.Hotel.Spot.Location
		b.lastLocation = &loc
	}
}

// buildFirstDay: departure travel leg, optional check-in, one evening
// attraction, dinner, overnight marker.
func (b *scheduleBuilder) buildFirstDay(plan *DayPlan) {
	b.resetDay()
	b.lastLocation = nil // still in transit until arrival

	plan.Activities = append(plan.Activities, ScheduledActivity{
		Hour:          departureHour,
		Label:         fmt.Sprintf("Travel from %s to %s", b.cfg.Request.Origin, b.cfg.Request.Destination),
		Category:      CategoryTravel,
		DurationHours: b.travel,
	})

	arrival := departureHour + b.travel
	cursor := arrival

	checkedIn := false
	if b.cfg.Hotel != nil && arrival >= 14 && isActivityTimeRealistic(arrival, CategoryCheckIn) {
		plan.Activities = append(plan.Activities, ScheduledActivity{
			Hour:          arrival,
			Label:         "Check in at " + b.cfg.Hotel.Spot.Name,
			Category:      CategoryCheckIn,
			DurationHours: 0.5,
		})
		cursor = arrival + 0.5
		checkedIn = true
		loc := b.cfg.Hotel.Spot.Location
		b.lastLocation = &loc
	}

	b.scheduleAttraction(plan, cursor, latestEveningSlot)

	b.scheduleMeal(plan, dinnerHour, "Dinner")

	if b.cfg.Hotel != nil {
		b.appendOvernight(plan)
		if !checkedIn {
			loc := b.cfg.Hotel.Spot.Location
			b.lastLocation = &loc
		}
	}
}

// buildMiddleDay: the full fixed template.
func (b *scheduleBuilder) buildMiddleDay(plan *DayPlan) {
	b.resetDay()

	b.scheduleMeal(plan, breakfastHour, "Breakfast")
	b.scheduleAttraction(plan, 8.5, 18)
	b.scheduleAttraction(plan, 11.0, 18)
	b.scheduleMeal(plan, lunchHour, "Lunch")
	b.scheduleAttraction(plan, 13.0, 18)
	b.scheduleAttraction(plan, 16.0, 18)
	b.scheduleMeal(plan, dinnerHour, "Dinner")

	if b.cfg.Hotel != nil {
		b.appendOvernight(plan)
	}
}

// buildLastDay: breakfast, check-out, one final attraction, lunch, return leg.
func (b *scheduleBuilder) buildLastDay(plan *DayPlan) {
	b.resetDay()

	b.scheduleMeal(plan, breakfastHour, "Breakfast")

	if b.cfg.Hotel != nil {
		plan.Activities = append(plan.Activities, ScheduledActivity{
			Hour:          checkOutHour,
			Label:         "Check out from " + b.cfg.Hotel.Spot.Name,
			Category:      CategoryCheckOut,
			DurationHours: 0.5,
		})
	}

	b.scheduleAttraction(plan, finalAttractionHour, 18)
	b.scheduleMeal(plan, lunchHour, "Lunch")
	b.appendReturnLeg(plan, returnDepartureHour)
}

// buildSingleDay applies first-day and last-day rules to the same day:
// departure leg, optional attraction, lunch, return leg. No hotel.
func (b *scheduleBuilder) buildSingleDay(plan *DayPlan) {
	b.resetDay()
	b.lastLocation = nil

	plan.Activities = append(plan.Activities, ScheduledActivity{
		Hour:          departureHour,
		Label:         fmt.Sprintf("Travel from %s to %s", b.cfg.Request.Origin, b.cfg.Request.Destination),
		Category:      CategoryTravel,
		DurationHours: b.travel,
	})

	arrival := departureHour + b.travel
	end := arrival
	if placed := b.scheduleAttraction(plan, arrival, latestEveningSlot); placed != nil {
		end = placed.Hour + placed.DurationHours
	}

	b.scheduleMeal(plan, lunchHour, "Lunch")

	returnHour := returnDepartureHour
	if end > returnHour {
		returnHour = end
	}
	b.appendReturnLeg(plan, returnHour)
}

// scheduleAttraction draws the next unscheduled attraction in priority
// order that passes the legality, budget, and daily-cap checks for the
// slot, inserting a travel sub-entry when the hop is long enough. The hop
// counts toward latestStart: a candidate whose routed start lands past it
// is skipped. Returns the placed activity, or nil if the slot stays empty.
func (b *scheduleBuilder) scheduleAttraction(plan *DayPlan, slotHour, latestStart float64) *ScheduledActivity {
	for _, candidate := range b.cfg.Attractions {
		name := normalizeName(candidate.Name)
		if _, taken := b.scheduled[name]; taken {
			continue
		}

		travelHours := b.hopTravelHours(candidate.Location)
		startHour := slotHour
		if travelHours > minTravelSubEntry {
			startHour = slotHour + travelHours
		}

		visit := candidate.AvgVisitHours
		if visit <= 0 {
			visit = 1
		}

		if startHour > latestStart {
			continue
		}
		if !isActivityTimeRealistic(startHour, candidate.Category) {
			continue
		}
		if startHour+visit > 18 {
			continue
		}
		if b.hoursUsed+travelHours+visit > dailyActivityCap {
			continue
		}
		if b.activitiesSpent+candidate.EstimatedCost > b.cfg.Envelope.Activities {
			continue
		}

		if travelHours > minTravelSubEntry {
			plan.Activities = append(plan.Activities, ScheduledActivity{
				Hour:          slotHour,
				Label:         "Travel to " + candidate.Name,
				Category:      CategoryTravel,
				DurationHours: travelHours,
			})
		}

		activity := ScheduledActivity{
			Hour:          startHour,
			Label:         candidate.Name,
			Category:      candidate.Category,
			DurationHours: visit,
			Cost:          candidate.EstimatedCost,
			IsHiddenGem:   candidate.IsHidden,
		}
		if b.cfg.Weather != nil {
			activity.Weather = b.cfg.Weather(candidate.Location, plan.Date)
		}
		plan.Activities = append(plan.Activities, activity)

		b.scheduled[name] = struct{}{}
		b.activitiesSpent += candidate.EstimatedCost
		b.hoursUsed += travelHours + visit
		if candidate.IsHidden {
			b.hiddenGems++
		}
		loc := candidate.Location
		b.lastLocation = &loc

		return &plan.Activities[len(plan.Activities)-1]
	}
	return nil
}

// scheduleMeal places the cheapest unused restaurant at the given hour if
// the meal budget has headroom. Absent restaurants leave the slot empty.
func (b *scheduleBuilder) scheduleMeal(plan *DayPlan, hour float64, label string) {
	if !isActivityTimeRealistic(hour, CategoryMeal) {
		return
	}

	for _, restaurant := range b.restaurants {
		name := normalizeName(restaurant.Name)
		if _, taken := b.scheduled[name]; taken {
			continue
		}
		if b.mealsSpent+restaurant.EstimatedCost > b.cfg.Envelope.Meals {
			continue
		}

		plan.Activities = append(plan.Activities, ScheduledActivity{
			Hour:          hour,
			Label:         label + " at " + restaurant.Name,
			Category:      CategoryMeal,
			DurationHours: mealDurationHours,
			Cost:          restaurant.EstimatedCost,
		})

		b.scheduled[name] = struct{}{}
		b.mealsSpent += restaurant.EstimatedCost
		loc := restaurant.Location
		b.lastLocation = &loc
		return
	}
}

func (b *scheduleBuilder) appendOvernight(plan *DayPlan) {
	plan.Activities = append(plan.Activities, ScheduledActivity{
		Hour:     overnightHour,
		Label:    "Overnight at " + b.cfg.Hotel.Spot.Name,
		Category: CategoryStay,
	})
}

func (b *scheduleBuilder) appendReturnLeg(plan *DayPlan, hour float64) {
	plan.Activities = append(plan.Activities, ScheduledActivity{
		Hour:          hour,
		Label:         fmt.Sprintf("Travel from %s to %s", b.cfg.Request.Destination, b.cfg.Request.Origin),
		Category:      CategoryTravel,
		DurationHours: b.travel,
	})
	plan.Activities = append(plan.Activities, ScheduledActivity{
		Hour:     hour + b.travel,
		Label:    "Arrive at " + b.cfg.Request.Origin,
		Category: CategoryArrival,
	})
}

// hopTravelHours estimates the hop from the last located activity to the
// next attraction. The first hop of a day without a reference point is free.
func (b *scheduleBuilder) hopTravelHours(to geo.Point) float64 {
	if b.lastLocation == nil {
		return 0
	}
	return geo.TravelHours(*b.lastLocation, to)
}

// unusedAttractions returns candidates that were never scheduled, in
// priority order.
func (b *scheduleBuilder) unusedAttractions() []places.Spot {
	var unused []places.Spot
	for _, candidate := range b.cfg.Attractions {
		if _, taken := b.scheduled[normalizeName(candidate.Name)]; !taken {
			unused = append(unused, candidate.Spot)
		}
	}
	return unused
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
