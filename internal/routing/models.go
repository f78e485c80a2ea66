// Package routing estimates driving distance and duration between cities.
package routing

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for routing operations.
var (
	// ErrProviderUnavailable indicates the routing provider is down or the circuit breaker is open.
	ErrProviderUnavailable = errors.New("routing provider unavailable")
	// ErrNoRouteFound indicates no drivable route exists between the given places.
	ErrNoRouteFound = errors.New("no route found between the given places")
	// ErrRateLimitExceeded indicates the API quota has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// Provider defines the interface for routing providers.
type Provider interface {
	// Route estimates driving distance and duration between two named places.
	Route(ctx context.Context, origin, destination string) (*Estimate, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// Estimate is a driving estimate between two places.
type Estimate struct {
	DistanceKm    float64
	DurationHours float64
	Provider      string
	FetchedAt     time.Time
}

// Error provides detailed error information from the routing provider.
type Error struct {
	Provider string // Provider that generated the error
	Code     string // Error code from the provider
	Message  string // Human-readable error message
	Err      error  // Underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is transient and the request can be retried.
func (e *Error) IsRetryable() bool {
	return errors.Is(e.Err, ErrProviderUnavailable) || errors.Is(e.Err, ErrRateLimitExceeded)
}
