// Package resilience wraps outbound collaborator calls with timeouts, retry
// with exponential backoff, and a circuit breaker. Every external data source
// the planning engine consults (places, routing, weather, budget prediction)
// goes through a Client so a slow or failing collaborator degrades to its
// fallback value instead of hanging the pipeline.
package resilience

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

var (
	// ErrCircuitOpen is returned when the collaborator's circuit breaker is
	// open and no request was attempted.
	ErrCircuitOpen = errors.New("collaborator circuit breaker is open")
)

// ClientConfig configures a resilient collaborator client.
type ClientConfig struct {
	// Name identifies the collaborator for breaker naming and health checks.
	Name string

	// Timeout bounds each individual HTTP attempt. Default: 10s.
	Timeout time.Duration

	// MaxRetries is the number of retry attempts after the first call.
	// Default: 3.
	MaxRetries uint64

	// InitialInterval is the first retry backoff delay. Default: 100ms.
	InitialInterval time.Duration

	// MaxInterval caps the retry backoff delay. Default: 5s.
	MaxInterval time.Duration

	// Breaker overrides the circuit breaker settings. Nil uses defaults.
	Breaker *BreakerConfig

	// Registry, when set, tracks this client for health reporting.
	Registry *Registry
}

// DefaultClientConfig returns the defaults used for collaborator calls.
func DefaultClientConfig(name string) ClientConfig {
	breaker := DefaultBreakerConfig(name)
	return ClientConfig{
		Name:            name,
		Timeout:         10 * time.Second,
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Breaker:         &breaker,
	}
}

// Client is an HTTP client with timeout, retry, and circuit breaker applied.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	config     ClientConfig
}

// NewClient creates a resilient collaborator client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 100 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 5 * time.Second
	}

	breakerCfg := cfg.Breaker
	if breakerCfg == nil {
		def := DefaultBreakerConfig(cfg.Name)
		breakerCfg = &def
	}

	client := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    NewBreaker[*http.Response](*breakerCfg), //nolint:bodyclose // type parameter, not a live response
		config:     cfg,
	}

	if cfg.Registry != nil {
		cfg.Registry.Register(cfg.Name, client)
	}

	return client
}

// Do executes the request with retry and breaker protection. Transient
// failures (network errors, HTTP 5xx) are retried with exponential backoff;
// an open breaker fails immediately with ErrCircuitOpen. The caller closes
// the response body.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.DoWithContext(req.Context(), req)
}

// DoWithContext executes the request bound to ctx.
func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.InitialInterval
	bo.MaxInterval = c.config.MaxInterval
	bo.MaxElapsedTime = 0 // retries are bounded by MaxRetries, not wall clock

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.config.MaxRetries), ctx)

	var lastResp *http.Response

	attempt := func() error {
		resp, err := c.breaker.Execute(func() (*http.Response, error) { //nolint:bodyclose // ownership passes to the caller
			clone := req.Clone(ctx)
			// Clone shares the original body reader, which the previous
			// attempt may have consumed. Rewind before resending.
			if req.GetBody != nil {
				body, bodyErr := req.GetBody()
				if bodyErr != nil {
					return nil, backoff.Permanent(bodyErr)
				}
				clone.Body = body
			}
			r, doErr := c.httpClient.Do(clone)
			if doErr != nil {
				return nil, doErr
			}
			// 5xx responses count as failures so the breaker trips.
			if r.StatusCode >= 500 {
				return r, &ServerError{StatusCode: r.StatusCode}
			}
			return r, nil
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			if resp != nil {
				lastResp = resp
			}
			return err
		}

		lastResp = resp
		return nil
	}

	if err := backoff.Retry(attempt, policy); err != nil {
		// A 5xx that exhausted retries still carries a response.
		if lastResp != nil {
			c.recordFailure(err)
			return lastResp, nil
		}
		c.recordFailure(err)
		return nil, err
	}

	c.recordSuccess()
	return lastResp, nil
}

func (c *Client) recordSuccess() {
	if c.config.Registry != nil {
		c.config.Registry.RecordSuccess(c.config.Name)
	}
}

func (c *Client) recordFailure(err error) {
	if c.config.Registry != nil {
		c.config.Registry.RecordFailure(c.config.Name, err)
	}
}

// ServerError represents an HTTP 5xx response from a collaborator.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return "collaborator server error: " + http.StatusText(e.StatusCode)
}

// BreakerState returns the current circuit breaker state.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// BreakerCounts returns the current circuit breaker counts.
func (c *Client) BreakerCounts() gobreaker.Counts {
	return c.breaker.Counts()
}
