// Package googlemaps provides a Google Distance Matrix routing provider.
package googlemaps

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"googlemaps.github.io/maps"

	"github.com/tripwise/tripwise/internal/routing"
)

// ProviderName identifies this routing provider.
const ProviderName = "googlemaps"

// distanceMatrixAPI is the subset of the Google Maps client used here.
type distanceMatrixAPI interface {
	DistanceMatrix(ctx context.Context, r *maps.DistanceMatrixRequest) (*maps.DistanceMatrixResponse, error)
}

// ClientConfig holds configuration for the Google Maps routing client.
type ClientConfig struct {
	// APIKey is the Google Maps API key (required unless API is set).
	APIKey string

	// API overrides the underlying Maps client (used in tests).
	API distanceMatrixAPI

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client estimates routes via the Google Distance Matrix API.
type Client struct {
	api    distanceMatrixAPI
	logger zerolog.Logger
}

// NewClient creates a new Google Maps routing client.
func NewClient(cfg ClientConfig) (*Client, error) {
	api := cfg.API
	if api == nil {
		mc, err := maps.NewClient(maps.WithAPIKey(cfg.APIKey))
		if err != nil {
			return nil, fmt.Errorf("creating maps client: %w", err)
		}
		api = mc
	}

	return &Client{
		api:    api,
		logger: cfg.Logger,
	}, nil
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Route estimates driving distance and duration between two named places.
func (c *Client) Route(ctx context.Context, origin, destination string) (*routing.Estimate, error) {
	c.logger.Debug().
		Str("origin", origin).
		Str("destination", destination).
		Msg("requesting distance matrix from Google Maps")

	resp, err := c.api.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      []string{origin},
		Destinations: []string{destination},
		Mode:         maps.TravelModeDriving,
	})
	if err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach routing provider",
			Err:      routing.ErrProviderUnavailable,
		}
	}

	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "EMPTY_RESPONSE",
			Message:  "distance matrix response contained no elements",
			Err:      routing.ErrNoRouteFound,
		}
	}

	element := resp.Rows[0].Elements[0]
	if element.Status != "OK" {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     element.Status,
			Message:  fmt.Sprintf("no drivable route: element status %s", element.Status),
			Err:      routing.ErrNoRouteFound,
		}
	}

	estimate := &routing.Estimate{
		DistanceKm:    float64(element.Distance.Meters) / 1000.0,
		DurationHours: element.Duration.Hours(),
		Provider:      ProviderName,
		FetchedAt:     time.Now(),
	}

	c.logger.Debug().
		Float64("distance_km", estimate.DistanceKm).
		Float64("duration_hours", estimate.DurationHours).
		Msg("received distance matrix from Google Maps")

	return estimate, nil
}
