// Package worker provides background job processing for TripWise.
package worker

import (
	"time"
)

// WarmTarget represents a destination whose caches should be pre-fetched.
type WarmTarget struct {
	// Name is the destination name as the planner receives it.
	Name string

	// Interests are the tags most requests for this destination carry.
	// Warming with them populates the same cache keys the API hits.
	Interests []string

	// Priority determines warm order (lower = higher priority).
	Priority int
}

// WarmConfig holds configuration for the cache warm job.
type WarmConfig struct {
	// Targets are the destinations to warm.
	// If empty, uses DefaultWarmTargets.
	Targets []WarmTarget

	// Origins are the cities route estimates are warmed from.
	// If empty, uses DefaultWarmOrigins.
	Origins []string

	// Concurrency is the number of destinations warmed in parallel.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for warming a single destination.
	// Default: 30 seconds
	Timeout time.Duration

	// WeatherDays is how many days of forecast to warm, starting today.
	// Default: 3
	WeatherDays int

	// WarmPlaces enables place and hidden spot warming.
	// Default: true
	WarmPlaces bool

	// WarmRoutes enables route estimate warming.
	// Default: true
	WarmRoutes bool

	// WarmWeather enables forecast warming.
	// Default: true
	WarmWeather bool
}

// DefaultWarmConfig returns the default warm configuration.
func DefaultWarmConfig() WarmConfig {
	return WarmConfig{
		Targets:     DefaultWarmTargets(),
		Origins:     DefaultWarmOrigins(),
		Concurrency: 3,
		Timeout:     30 * time.Second,
		WeatherDays: 3,
		WarmPlaces:  true,
		WarmRoutes:  true,
		WarmWeather: true,
	}
}

// DefaultWarmOrigins returns the cities most trips start from.
func DefaultWarmOrigins() []string {
	return []string{"Kochi", "Bangalore", "Chennai"}
}

// DefaultWarmTargets returns the destinations most itineraries are
// generated for, weighted toward the Kerala circuit.
func DefaultWarmTargets() []WarmTarget {
	return []WarmTarget{
		{
			Name:      "Munnar",
			Priority:  1,
			Interests: []string{"nature", "heritage"},
		},
		{
			Name:      "Alleppey",
			Priority:  1,
			Interests: []string{"nature", "food"},
		},
		{
			Name:      "Kochi",
			Priority:  1,
			Interests: []string{"heritage", "food"},
		},
		{
			Name:      "Wayanad",
			Priority:  2,
			Interests: []string{"nature", "adventure"},
		},
		{
			Name:      "Thekkady",
			Priority:  2,
			Interests: []string{"nature"},
		},
		{
			Name:      "Varkala",
			Priority:  2,
			Interests: []string{"beach", "food"},
		},
		{
			Name:      "Kumarakom",
			Priority:  3,
			Interests: []string{"nature"},
		},
		{
			Name:      "Goa",
			Priority:  3,
			Interests: []string{"beach", "food"},
		},
	}
}

// TotalTargets returns the number of destinations to warm.
func (c WarmConfig) TotalTargets() int {
	return len(c.Targets)
}
