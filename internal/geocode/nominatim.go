package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/tripwise/tripwise/internal/provider/resilience"
	"github.com/tripwise/tripwise/pkg/geo"
)

const (
	// ProviderName identifies this geocoder.
	ProviderName = "nominatim"

	// DefaultBaseURL is the public Nominatim endpoint.
	DefaultBaseURL = "https://nominatim.openstreetmap.org"

	// userAgent is required by the Nominatim usage policy.
	userAgent = "tripwise-itinerary-engine/1.0"
)

// Geocoder resolves a free-text destination to a coordinate.
type Geocoder interface {
	Locate(ctx context.Context, destination string) (geo.Point, error)
}

// ClientConfig configures the Nominatim client.
type ClientConfig struct {
	// BaseURL overrides the Nominatim endpoint (used in tests).
	BaseURL string

	// CountryBias is appended to queries to bias results (optional).
	CountryBias string

	// HTTPClient is the resilient client to use. Nil builds a default.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Nominatim forward-geocoding client.
type Client struct {
	baseURL     string
	countryBias string
	httpClient  *resilience.Client
	logger      zerolog.Logger
}

// NewClient creates a Nominatim client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		baseURL:     baseURL,
		countryBias: cfg.CountryBias,
		httpClient:  httpClient,
		logger:      cfg.Logger,
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Locate resolves a destination name to a coordinate. On any failure it
// returns the static fallback coordinate rather than an error, so downstream
// lookups always have a usable point.
func (c *Client) Locate(ctx context.Context, destination string) (geo.Point, error) {
	query := destination
	if c.countryBias != "" {
		query = destination + ", " + c.countryBias
	}

	endpoint := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return FallbackPoint(destination), fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("destination", destination).
			Msg("geocoder unavailable, using fallback coordinates")
		return FallbackPoint(destination), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Str("destination", destination).
			Msg("geocoder returned non-OK status, using fallback coordinates")
		return FallbackPoint(destination), nil
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		c.logger.Warn().Err(err).Str("destination", destination).
			Msg("malformed geocoder payload, using fallback coordinates")
		return FallbackPoint(destination), nil
	}

	if len(results) == 0 {
		return FallbackPoint(destination), ErrNotFound
	}

	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return FallbackPoint(destination), ErrNotFound
	}

	return geo.Point{Lat: lat, Lon: lon}, nil
}
