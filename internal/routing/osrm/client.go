// Package osrm provides a client for the OSRM routing API.
package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripwise/tripwise/internal/geocode"
	"github.com/tripwise/tripwise/internal/provider/resilience"
	"github.com/tripwise/tripwise/internal/routing"
)

const (
	// ProviderName identifies this routing provider.
	ProviderName = "osrm"

	// DefaultBaseURL is the public OSRM demo server.
	DefaultBaseURL = "http://router.project-osrm.org"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the OSRM client.
type ClientConfig struct {
	// BaseURL is the API base URL (optional, defaults to the public demo server).
	BaseURL string

	// Geocoder resolves place names to coordinates (required).
	Geocoder geocode.Geocoder

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OSRM API client.
type Client struct {
	baseURL    string
	geocoder   geocode.Geocoder
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new OSRM client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		if cfg.Registry != nil {
			clientCfg.Registry = cfg.Registry
		}
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		baseURL:    baseURL,
		geocoder:   cfg.Geocoder,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Route estimates driving distance and duration between two named places.
func (c *Client) Route(ctx context.Context, origin, destination string) (*routing.Estimate, error) {
	originPt, err := c.geocoder.Locate(ctx, origin)
	if err != nil {
		c.logger.Warn().Err(err).
			Str("origin", origin).
			Msg("geocoding origin fell back to static coordinates")
	}
	destPt, err := c.geocoder.Locate(ctx, destination)
	if err != nil {
		c.logger.Warn().Err(err).
			Str("destination", destination).
			Msg("geocoding destination fell back to static coordinates")
	}

	// OSRM uses lon,lat order
	url := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=false",
		c.baseURL, originPt.Lon, originPt.Lat, destPt.Lon, destPt.Lat)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("origin", origin).
		Str("destination", destination).
		Msg("requesting route from OSRM")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach routing provider",
			Err:      routing.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp.StatusCode)
	}

	var osrmResp osrmResponse
	if err := json.Unmarshal(respBody, &osrmResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if osrmResp.Code != "Ok" || len(osrmResp.Routes) == 0 {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "NO_ROUTE",
			Message:  "no route found between the given places",
			Err:      routing.ErrNoRouteFound,
		}
	}

	route := osrmResp.Routes[0]
	estimate := &routing.Estimate{
		DistanceKm:    route.Distance / 1000.0,
		DurationHours: route.Duration / 3600.0,
		Provider:      ProviderName,
		FetchedAt:     time.Now(),
	}

	c.logger.Debug().
		Float64("distance_km", estimate.DistanceKm).
		Float64("duration_hours", estimate.DurationHours).
		Msg("received route from OSRM")

	return estimate, nil
}

// handleErrorResponse maps OSRM error responses to domain errors.
func (c *Client) handleErrorResponse(statusCode int) error {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return &routing.Error{
			Provider: ProviderName,
			Code:     "RATE_LIMIT",
			Message:  "API rate limit exceeded, please try again later",
			Err:      routing.ErrRateLimitExceeded,
		}
	case statusCode == http.StatusBadRequest:
		return &routing.Error{
			Provider: ProviderName,
			Code:     "NO_ROUTE",
			Message:  "no route found between the given places",
			Err:      routing.ErrNoRouteFound,
		}
	case statusCode >= 500:
		return &routing.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("SERVER_%d", statusCode),
			Message:  "routing provider is temporarily unavailable",
			Err:      routing.ErrProviderUnavailable,
		}
	default:
		return &routing.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", statusCode),
			Message:  fmt.Sprintf("routing provider returned status %d", statusCode),
			Err:      routing.ErrProviderUnavailable,
		}
	}
}

// osrmResponse is the OSRM route endpoint response.
type osrmResponse struct {
	Code   string      `json:"code"`
	Routes []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Distance float64 `json:"distance"` // meters
	Duration float64 `json:"duration"` // seconds
}
