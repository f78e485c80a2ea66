package budget

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripwise/tripwise/internal/provider/resilience"
)

// ErrPredictorUnavailable indicates the prediction sidecar is down.
var ErrPredictorUnavailable = errors.New("budget predictor unavailable")

// TripFeatures are the model inputs for a spend prediction.
type TripFeatures struct {
	Destination     string  `json:"destination"`
	DurationDays    int     `json:"duration_days"`
	TravelType      string  `json:"travel_type"`
	PrimaryInterest string  `json:"primary_interest"`
	Budget          float64 `json:"budget"`
}

// Predictor estimates the expected spend for a trip.
type Predictor interface {
	Predict(ctx context.Context, features TripFeatures) (float64, error)
}

const (
	// PredictorName identifies the prediction sidecar.
	PredictorName = "budget-predictor"

	// DefaultPredictorTimeout bounds a prediction call.
	DefaultPredictorTimeout = 5 * time.Second
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// PredictorClientConfig holds configuration for the predictor client.
type PredictorClientConfig struct {
	// BaseURL is the sidecar base URL (required).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 5s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// PredictorClient calls the prediction model over HTTP.
type PredictorClient struct {
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewPredictorClient creates a new predictor client.
func NewPredictorClient(cfg PredictorClientConfig) *PredictorClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultPredictorTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(PredictorName)
		clientCfg.Timeout = timeout
		if cfg.Registry != nil {
			clientCfg.Registry = cfg.Registry
		}
		httpClient = resilience.NewClient(clientCfg)
	}

	return &PredictorClient{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Predict returns the model's expected spend for the trip.
func (c *PredictorClient) Predict(ctx context.Context, features TripFeatures) (float64, error) {
	body, err := json.Marshal(features)
	if err != nil {
		return 0, fmt.Errorf("marshaling features: %w", err)
	}

	url := c.baseURL + "/v1/predict"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("destination", features.Destination).
		Int("duration_days", features.DurationDays).
		Msg("requesting budget prediction")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, ErrPredictorUnavailable
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, ErrPredictorUnavailable
	}

	var payload struct {
		PredictedAmount float64 `json:"predicted_amount"`
	}
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return 0, fmt.Errorf("decoding response: %w", err)
	}

	c.logger.Debug().
		Float64("predicted_amount", payload.PredictedAmount).
		Msg("received budget prediction")

	return payload.PredictedAmount, nil
}
