package planner

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripwise/tripwise/internal/budget"
	"github.com/tripwise/tripwise/internal/places"
	"github.com/tripwise/tripwise/internal/routing"
	"github.com/tripwise/tripwise/internal/weather"
	"github.com/tripwise/tripwise/pkg/geo"
)

// Fallback route estimate used when the routing collaborator is unavailable.
const (
	fallbackDistanceKm    = 200.0
	fallbackDurationHours = 6.0
)

// RouteFinder is the routing collaborator contract.
type RouteFinder interface {
	Route(ctx context.Context, origin, destination string) (*routing.Estimate, error)
}

// PlaceFinder is the place-data collaborator contract.
type PlaceFinder interface {
	Places(ctx context.Context, destination string, interests []string) ([]places.Spot, error)
	HiddenSpots(ctx context.Context, destination string, interests []string) ([]places.Spot, error)
}

// WeatherFinder is the weather collaborator contract.
type WeatherFinder interface {
	Daily(ctx context.Context, location geo.Point, date time.Time) (*weather.Snapshot, error)
}

// EngineConfig wires the engine's collaborators. All collaborators are
// optional except the place finder; a missing or failing collaborator
// degrades to a documented fallback value.
type EngineConfig struct {
	Routes    RouteFinder
	Places    PlaceFinder
	Weather   WeatherFinder
	Predictor budget.Predictor
	Allocator *budget.Allocator
	Validator *Validator
	Logger    zerolog.Logger
}

// Engine runs the itinerary pipeline. Each Generate call keeps all mutable
// state local to the call, so one Engine may serve concurrent requests.
type Engine struct {
	routes    RouteFinder
	places    PlaceFinder
	weather   WeatherFinder
	predictor budget.Predictor
	allocator *budget.Allocator
	validator *Validator
	logger    zerolog.Logger
}

// NewEngine creates an engine from the given configuration.
func NewEngine(cfg EngineConfig) *Engine {
	allocator := cfg.Allocator
	if allocator == nil {
		allocator = budget.NewAllocator(budget.DefaultSplitPolicy())
	}
	validator := cfg.Validator
	if validator == nil {
		validator = NewValidator()
	}

	return &Engine{
		routes:    cfg.Routes,
		places:    cfg.Places,
		weather:   cfg.Weather,
		predictor: cfg.Predictor,
		allocator: allocator,
		validator: validator,
		logger:    cfg.Logger,
	}
}

// Generate validates the raw request and builds a complete itinerary.
// Collaborator failures degrade to fallbacks; the only error returns are
// ValidationError, BudgetInsufficientError, and BudgetExceededError.
func (e *Engine) Generate(ctx context.Context, raw RawTripRequest) (*Itinerary, error) {
	request, err := e.validator.Validate(raw)
	if err != nil {
		return nil, err
	}

	duration := request.DurationDays()

	route := e.fetchRoute(ctx, request)
	popular, hidden := e.fetchSpots(ctx, request)

	candidates := AggregateCandidates(popular, hidden)
	scored := ScoreAttractions(candidates.Attractions, request.Interests)
	envelope := e.allocator.Allocate(request.Budget, duration)

	hotel := SelectHotel(candidates.Hotels, envelope.MaxHotelBudget, duration)
	if hotel != nil && hotel.TotalCost > request.Budget {
		return nil, &BudgetInsufficientError{HotelCost: hotel.TotalCost, Budget: request.Budget}
	}

	result := BuildSchedule(ScheduleConfig{
		Request:     request,
		Envelope:    envelope,
		Hotel:       hotel,
		Attractions: scored,
		Restaurants: candidates.Restaurants,
		TravelHours: route.DurationHours,
		Weather:     e.weatherLookup(ctx),
	})

	accommodation := 0.0
	if hotel != nil {
		accommodation = hotel.TotalCost
	}

	costs, utilization, err := ReconcileCosts(request.Budget, accommodation, result.ActivitiesCost, result.MealsCost)
	if err != nil {
		return nil, err
	}

	itinerary := &Itinerary{
		Request:  request,
		Envelope: envelope,
		Hotel:    hotel,
		Days:     result.Days,
		Costs:    costs,
		Summary: Summary{
			BudgetUtilization: utilization,
			HiddenGemCount:    result.HiddenGemCount,
			PredictedSpend:    e.predictSpend(ctx, request, duration),
			DistanceKm:        route.DistanceKm,
			TravelHours:       route.DurationHours,
		},
		Alternates: Alternates{
			Hotels:      alternateHotels(candidates.Hotels, hotel),
			Attractions: result.UnusedAttractions,
		},
	}

	e.logger.Info().
		Str("destination", request.Destination).
		Int("duration_days", duration).
		Float64("total_cost", costs.Total).
		Float64("budget_utilization", utilization).
		Int("hidden_gems", result.HiddenGemCount).
		Msg("itinerary generated")

	return itinerary, nil
}

// fetchRoute degrades to a fixed long-haul estimate when routing fails.
func (e *Engine) fetchRoute(ctx context.Context, request TripRequest) routing.Estimate {
	fallback := routing.Estimate{
		DistanceKm:    fallbackDistanceKm,
		DurationHours: fallbackDurationHours,
		Provider:      "fallback",
	}

	if e.routes == nil {
		return fallback
	}

	estimate, err := e.routes.Route(ctx, request.Origin, request.Destination)
	if err != nil || estimate == nil {
		e.logger.Warn().Err(err).
			Str("origin", request.Origin).
			Str("destination", request.Destination).
			Msg("routing unavailable, using fallback estimate")
		return fallback
	}
	return *estimate
}

// fetchSpots degrades each list to empty when its query fails.
func (e *Engine) fetchSpots(ctx context.Context, request TripRequest) (popular, hidden []places.Spot) {
	if e.places == nil {
		return nil, nil
	}

	popular, err := e.places.Places(ctx, request.Destination, request.Interests)
	if err != nil {
		e.logger.Warn().Err(err).
			Str("destination", request.Destination).
			Msg("place search unavailable, continuing without popular spots")
		popular = nil
	}

	hidden, err = e.places.HiddenSpots(ctx, request.Destination, request.Interests)
	if err != nil {
		e.logger.Warn().Err(err).
			Str("destination", request.Destination).
			Msg("hidden spot search unavailable, continuing without hidden spots")
		hidden = nil
	}

	return popular, hidden
}

// weatherLookup returns a lookup that degrades to a placeholder snapshot.
func (e *Engine) weatherLookup(ctx context.Context) WeatherLookup {
	return func(location geo.Point, date time.Time) *weather.Snapshot {
		if e.weather == nil {
			snap := weather.PlaceholderSnapshot(date)
			return &snap
		}
		snapshot, err := e.weather.Daily(ctx, location, date)
		if err != nil || snapshot == nil {
			snap := weather.PlaceholderSnapshot(date)
			return &snap
		}
		return snapshot
	}
}

// predictSpend degrades to budget * 1.1 when the predictor is unavailable.
func (e *Engine) predictSpend(ctx context.Context, request TripRequest, duration int) float64 {
	fallback := request.Budget * 1.1

	if e.predictor == nil {
		return fallback
	}

	amount, err := e.predictor.Predict(ctx, budget.TripFeatures{
		Destination:     request.Destination,
		DurationDays:    duration,
		TravelType:      request.TravelType,
		PrimaryInterest: request.PrimaryInterest(),
		Budget:          request.Budget,
	})
	if err != nil {
		e.logger.Warn().Err(err).Msg("budget predictor unavailable, using fallback prediction")
		return fallback
	}
	return amount
}

func alternateHotels(hotels []places.Spot, chosen *ChosenHotel) []places.Spot {
	if chosen == nil {
		return hotels
	}
	var alternates []places.Spot
	for _, hotel := range hotels {
		if normalizeName(hotel.Name) != normalizeName(chosen.Spot.Name) {
			alternates = append(alternates, hotel)
		}
	}
	return alternates
}
