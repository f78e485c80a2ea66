// Package openmeteo provides a client for the Open-Meteo forecast API.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripwise/tripwise/internal/provider/resilience"
	"github.com/tripwise/tripwise/internal/weather"
	"github.com/tripwise/tripwise/pkg/geo"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "open-meteo"

	// DefaultBaseURL is the Open-Meteo API base URL.
	DefaultBaseURL = "https://api.open-meteo.com"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Open-Meteo client.
type ClientConfig struct {
	// BaseURL is the API base URL (optional).
	BaseURL string

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

// Client is an Open-Meteo API client.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new Open-Meteo client.
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
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Daily returns the weather snapshot for a location on a calendar day.
func (c *Client) Daily(ctx context.Context, location geo.Point, date time.Time) (*weather.Snapshot, error) {
	day := date.Format("2006-01-02")
	url := fmt.Sprintf(
		"%s/v1/forecast?latitude=%.4f&longitude=%.4f&daily=weather_code,temperature_2m_max,temperature_2m_min&start_date=%s&end_date=%s&timezone=auto",
		c.baseURL, location.Lat, location.Lon, day, day)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Float64("lat", location.Lat).
		Float64("lon", location.Lon).
		Str("date", day).
		Msg("requesting daily forecast from Open-Meteo")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, weather.ErrProviderUnavailable
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode >= 500 {
			return nil, weather.ErrProviderUnavailable
		}
		return nil, weather.ErrNoDataForLocation
	}

	var omResp openMeteoResponse
	if err := json.Unmarshal(respBody, &omResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if len(omResp.Daily.WeatherCode) == 0 ||
		len(omResp.Daily.TempMax) == 0 || len(omResp.Daily.TempMin) == 0 {
		return nil, weather.ErrNoDataForLocation
	}

	snapshot := &weather.Snapshot{
		Condition: conditionFromWMOCode(omResp.Daily.WeatherCode[0]),
		TempC:     (omResp.Daily.TempMax[0] + omResp.Daily.TempMin[0]) / 2,
		Date:      date,
		FetchedAt: time.Now(),
	}

	c.logger.Debug().
		Str("condition", string(snapshot.Condition)).
		Float64("temp_c", snapshot.TempC).
		Msg("received daily forecast from Open-Meteo")

	return snapshot, nil
}

// conditionFromWMOCode maps WMO weather interpretation codes to conditions.
func conditionFromWMOCode(code int) weather.Condition {
	switch {
	case code == 0:
		return weather.ConditionSunny
	case code <= 2:
		return weather.ConditionPartlyCloudy
	case code == 3:
		return weather.ConditionCloudy
	case code == 45 || code == 48:
		return weather.ConditionFog
	case code >= 51 && code <= 57:
		return weather.ConditionDrizzle
	case (code >= 61 && code <= 67) || (code >= 80 && code <= 82):
		return weather.ConditionRain
	case code >= 95 && code <= 99:
		return weather.ConditionThunderstorm
	default:
		return weather.ConditionUnknown
	}
}

// openMeteoResponse is the Open-Meteo daily forecast response.
type openMeteoResponse struct {
	Daily struct {
		Time        []string  `json:"time"`
		WeatherCode []int     `json:"weather_code"`
		TempMax     []float64 `json:"temperature_2m_max"`
		TempMin     []float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}
