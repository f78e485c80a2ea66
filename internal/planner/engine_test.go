package planner_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripwise/tripwise/internal/budget"
	"github.com/tripwise/tripwise/internal/places"
	"github.com/tripwise/tripwise/internal/planner"
	"github.com/tripwise/tripwise/internal/routing"
	"github.com/tripwise/tripwise/internal/weather"
	"github.com/tripwise/tripwise/pkg/geo"
)

type mockRoutes struct {
	estimate  *routing.Estimate
	err       error
	callCount int
}

func (m *mockRoutes) Route(_ context.Context, _, _ string) (*routing.Estimate, error) {
	m.callCount++
	if m.err != nil {
		return nil, m.err
	}
	return m.estimate, nil
}

type mockPlaces struct {
	popular   []places.Spot
	hidden    []places.Spot
	err       error
	callCount int
}

func (m *mockPlaces) Places(_ context.Context, _ string, _ []string) ([]places.Spot, error) {
	m.callCount++
	if m.err != nil {
		return nil, m.err
	}
	return m.popular, nil
}

func (m *mockPlaces) HiddenSpots(_ context.Context, _ string, _ []string) ([]places.Spot, error) {
	m.callCount++
	if m.err != nil {
		return nil, m.err
	}
	return m.hidden, nil
}

type mockWeather struct {
	err error
}

func (m *mockWeather) Daily(_ context.Context, _ geo.Point, date time.Time) (*weather.Snapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &weather.Snapshot{Condition: weather.ConditionPartlyCloudy, TempC: 24, Date: date}, nil
}

type mockPredictor struct {
	amount float64
	err    error
}

func (m *mockPredictor) Predict(_ context.Context, _ budget.TripFeatures) (float64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.amount, nil
}

func munnarSpots() (popular, hidden []places.Spot) {
	popular = []places.Spot{
		{Name: "Hillview Inn", Category: places.CategoryHotel, Location: geo.Point{Lat: 10.08, Lon: 77.06}, EstimatedCost: 2000, Rating: 4.4},
		{Name: "Grand Plaza", Category: places.CategoryHotel, Location: geo.Point{Lat: 10.07, Lon: 77.05}, EstimatedCost: 4800, Rating: 4.7},
		{Name: "Saravana", Category: places.CategoryRestaurant, Location: geo.Point{Lat: 10.09, Lon: 77.06}, EstimatedCost: 150, Rating: 4.0},
		{Name: "Spice Garden", Category: places.CategoryRestaurant, Location: geo.Point{Lat: 10.08, Lon: 77.07}, EstimatedCost: 250, Rating: 4.1},
		{Name: "Eravikulam National Park", Category: "nature", Location: geo.Point{Lat: 10.20, Lon: 77.00}, AvgVisitHours: 3, EstimatedCost: 400, Rating: 4.6},
		{Name: "Tea Museum", Category: "heritage", Location: geo.Point{Lat: 10.00, Lon: 77.00}, AvgVisitHours: 2, EstimatedCost: 100, Rating: 4.1},
	}
	hidden = []places.Spot{
		{Name: "Secret Falls", Category: "nature", Location: geo.Point{Lat: 10.10, Lon: 77.10}, AvgVisitHours: 2, EstimatedCost: 200, Rating: 4.3, IsHidden: true},
	}
	return popular, hidden
}

func newTestEngine(routes *mockRoutes, placesMock *mockPlaces, weatherMock *mockWeather, predictor *mockPredictor) *planner.Engine {
	return planner.NewEngine(planner.EngineConfig{
		Routes:    routes,
		Places:    placesMock,
		Weather:   weatherMock,
		Predictor: predictor,
		Validator: planner.NewValidatorAt(fixedClock()),
		Logger:    zerolog.Nop(),
	})
}

func TestEngine_Generate_MunnarThreeDay(t *testing.T) {
	popular, hidden := munnarSpots()
	routes := &mockRoutes{estimate: &routing.Estimate{DistanceKm: 130, DurationHours: 4}}
	placesMock := &mockPlaces{popular: popular, hidden: hidden}

	engine := newTestEngine(routes, placesMock, &mockWeather{}, &mockPredictor{amount: 14000})

	itinerary, err := engine.Generate(context.Background(), validRawRequest())
	require.NoError(t, err)

	require.NotNil(t, itinerary.Hotel)
	assert.LessOrEqual(t, itinerary.Hotel.TotalCost, 9000.0) // 60% cap on 15000
	assert.Equal(t, planner.HotelSelectionStrict, itinerary.Hotel.Selection)

	require.Len(t, itinerary.Days, 3)
	day1 := itinerary.Days[0]

	travelLegs := activitiesOfCategory(day1, planner.CategoryTravel)
	require.Len(t, travelLegs, 1)
	assert.Equal(t, 8.0, travelLegs[0].Hour)
	assert.LessOrEqual(t, len(activitiesOfCategory(day1, "nature")), 1)

	assert.GreaterOrEqual(t, itinerary.Summary.HiddenGemCount, 1)
	assert.InDelta(t, 14000, itinerary.Summary.PredictedSpend, 0.001)
	assert.InDelta(t, itinerary.Costs.Accommodation+itinerary.Costs.Activities+itinerary.Costs.Meals,
		itinerary.Costs.Total, 0.001)
	assert.LessOrEqual(t, itinerary.Costs.Total, itinerary.Request.Budget*1.1)

	// The unchosen hotel surfaces as an alternate.
	require.Len(t, itinerary.Alternates.Hotels, 1)
	assert.Equal(t, "Grand Plaza", itinerary.Alternates.Hotels[0].Name)
}

func TestEngine_Generate_SingleDay(t *testing.T) {
	popular, hidden := munnarSpots()
	routes := &mockRoutes{estimate: &routing.Estimate{DistanceKm: 60, DurationHours: 2}}

	engine := newTestEngine(routes, &mockPlaces{popular: popular, hidden: hidden}, &mockWeather{}, &mockPredictor{amount: 4000})

	raw := validRawRequest()
	raw.EndDate = raw.StartDate
	raw.Budget = 5000

	itinerary, err := engine.Generate(context.Background(), raw)
	require.NoError(t, err)

	assert.Nil(t, itinerary.Hotel)
	assert.Zero(t, itinerary.Costs.Accommodation)
	assert.Zero(t, itinerary.Envelope.Accommodation)

	require.Len(t, itinerary.Days, 1)
	day := itinerary.Days[0]
	travelLegs := activitiesOfCategory(day, planner.CategoryTravel)
	assert.GreaterOrEqual(t, len(travelLegs), 2, "expected departure and return legs")
	require.NotEmpty(t, activitiesOfCategory(day, planner.CategoryArrival))
}

func TestEngine_Generate_ValidationRejectsBeforeCollaborators(t *testing.T) {
	routes := &mockRoutes{estimate: &routing.Estimate{DistanceKm: 130, DurationHours: 4}}
	placesMock := &mockPlaces{}

	engine := newTestEngine(routes, placesMock, &mockWeather{}, &mockPredictor{})

	raw := validRawRequest()
	raw.Budget = 100 // below minimum planning threshold

	_, err := engine.Generate(context.Background(), raw)
	var validationErr *planner.ValidationError
	require.ErrorAs(t, err, &validationErr)

	assert.Zero(t, routes.callCount, "routing must not be queried for invalid requests")
	assert.Zero(t, placesMock.callCount, "place search must not be queried for invalid requests")
}

func TestEngine_Generate_AllCollaboratorsDown(t *testing.T) {
	routes := &mockRoutes{err: errors.New("osrm down")}
	placesMock := &mockPlaces{err: errors.New("overpass down")}
	weatherMock := &mockWeather{err: errors.New("open-meteo down")}
	predictor := &mockPredictor{err: errors.New("sidecar down")}

	engine := newTestEngine(routes, placesMock, weatherMock, predictor)

	itinerary, err := engine.Generate(context.Background(), validRawRequest())
	require.NoError(t, err, "collaborator failures must degrade, not abort")

	// Fallback route estimate drives the travel legs.
	require.Len(t, itinerary.Days, 3)
	day1Travel := activitiesOfCategory(itinerary.Days[0], planner.CategoryTravel)
	require.Len(t, day1Travel, 1)
	assert.InDelta(t, 6.0, day1Travel[0].DurationHours, 0.001)
	assert.InDelta(t, 200, itinerary.Summary.DistanceKm, 0.001)

	// Empty spot lists mean no hotel, no meals, no attractions.
	assert.Nil(t, itinerary.Hotel)
	assert.Zero(t, itinerary.Costs.Total)

	// Predictor fallback is budget * 1.1.
	assert.InDelta(t, itinerary.Request.Budget*1.1, itinerary.Summary.PredictedSpend, 0.001)
}

func TestEngine_Generate_BudgetInsufficient(t *testing.T) {
	popular := []places.Spot{
		{Name: "Palace Resort", Category: places.CategoryHotel, Location: geo.Point{Lat: 10.08, Lon: 77.06}, EstimatedCost: 2000, Rating: 4.5},
	}
	routes := &mockRoutes{estimate: &routing.Estimate{DistanceKm: 130, DurationHours: 4}}

	engine := newTestEngine(routes, &mockPlaces{popular: popular}, &mockWeather{}, &mockPredictor{})

	raw := validRawRequest()
	raw.Budget = 1000 // cheapest-fallback hotel costs 4000 for two nights

	_, err := engine.Generate(context.Background(), raw)
	var insufficient *planner.BudgetInsufficientError
	require.ErrorAs(t, err, &insufficient)
	assert.InDelta(t, 4000, insufficient.HotelCost, 0.001)
	assert.InDelta(t, 1000, insufficient.Budget, 0.001)
}

func TestEngine_Generate_BudgetExceeded(t *testing.T) {
	popular := []places.Spot{
		{Name: "Thrifty Stay", Category: places.CategoryHotel, Location: geo.Point{Lat: 10.08, Lon: 77.06}, EstimatedCost: 450, Rating: 4.0},
		{Name: "Rasa Canteen", Category: places.CategoryRestaurant, Location: geo.Point{Lat: 10.09, Lon: 77.06}, EstimatedCost: 60, Rating: 4.0},
		{Name: "Hilltop Mess", Category: places.CategoryRestaurant, Location: geo.Point{Lat: 10.10, Lon: 77.05}, EstimatedCost: 60, Rating: 4.0},
		{Name: "Green Dhaba", Category: places.CategoryRestaurant, Location: geo.Point{Lat: 10.11, Lon: 77.04}, EstimatedCost: 60, Rating: 4.0},
		{Name: "Valley Walk", Category: "nature", Location: geo.Point{Lat: 10.20, Lon: 77.00}, AvgVisitHours: 2, EstimatedCost: 250, Rating: 4.2},
	}
	routes := &mockRoutes{estimate: &routing.Estimate{DistanceKm: 130, DurationHours: 4}}

	engine := newTestEngine(routes, &mockPlaces{popular: popular}, &mockWeather{}, &mockPredictor{})

	raw := validRawRequest()
	raw.Budget = 1000

	// Hotel: 900 for two nights (relaxed pass, still within the 1000 budget).
	// Meals and the attraction push the total past 1100.
	_, err := engine.Generate(context.Background(), raw)
	var exceeded *planner.BudgetExceededError
	require.ErrorAs(t, err, &exceeded)
	assert.Greater(t, exceeded.Total, 1100.0)
	assert.InDelta(t, 1000, exceeded.Budget, 0.001)
}
