package worker

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripwise/tripwise/internal/geocode"
	"github.com/tripwise/tripwise/internal/places"
	"github.com/tripwise/tripwise/internal/routing"
	"github.com/tripwise/tripwise/internal/weather"
	"github.com/tripwise/tripwise/pkg/geo"
)

// PlaceWarmer fetches points of interest, populating the places cache.
type PlaceWarmer interface {
	Places(ctx context.Context, destination string, interests []string) ([]places.Spot, error)
	HiddenSpots(ctx context.Context, destination string, interests []string) ([]places.Spot, error)
}

// RouteWarmer fetches route estimates, populating the routing cache.
type RouteWarmer interface {
	Route(ctx context.Context, origin, destination string) (*routing.Estimate, error)
}

// WeatherWarmer fetches daily forecasts, populating the weather cache.
type WeatherWarmer interface {
	Daily(ctx context.Context, location geo.Point, date time.Time) (*weather.Snapshot, error)
}

// WarmJob pre-fetches places, routes and forecasts for popular
// destinations so interactive requests hit warm caches.
type WarmJob struct {
	config  WarmConfig
	logger  zerolog.Logger
	places  PlaceWarmer
	routes  RouteWarmer
	weather WeatherWarmer
	metrics *WarmMetrics
}

// WarmJobConfig holds dependencies for the warm job.
type WarmJobConfig struct {
	Config  WarmConfig
	Logger  zerolog.Logger
	Places  PlaceWarmer
	Routes  RouteWarmer
	Weather WeatherWarmer
}

// WarmResult summarizes a single warm run.
type WarmResult struct {
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
	TotalTargets int
	Successful   int
	Failed       int
	Errors       []WarmError
}

// WarmError records a single failed fetch during a warm run.
type WarmError struct {
	Provider string
	Target   string
	Error    string
}

// WarmMetrics tracks warm job metrics across runs.
type WarmMetrics struct {
	mu sync.RWMutex

	TotalRuns       int64
	SuccessfulWarms int64
	FailedWarms     int64
	PlacesWarmed    int64
	RoutesWarmed    int64
	WeatherWarmed   int64
	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// NewWarmJob creates a new cache warm job.
func NewWarmJob(cfg WarmJobConfig) *WarmJob {
	config := cfg.Config
	if len(config.Targets) == 0 {
		config.Targets = DefaultWarmTargets()
	}
	if len(config.Origins) == 0 {
		config.Origins = DefaultWarmOrigins()
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 3
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.WeatherDays <= 0 {
		config.WeatherDays = 3
	}

	return &WarmJob{
		config:  config,
		logger:  cfg.Logger,
		places:  cfg.Places,
		routes:  cfg.Routes,
		weather: cfg.Weather,
		metrics: &WarmMetrics{},
	}
}

// Run warms every configured destination using a worker pool and
// returns a summary of the run.
func (j *WarmJob) Run(ctx context.Context) *WarmResult {
	result := &WarmResult{
		StartTime:    time.Now(),
		TotalTargets: j.config.TotalTargets(),
	}

	j.logger.Info().
		Int("targets", result.TotalTargets).
		Int("concurrency", j.config.Concurrency).
		Msg("starting cache warm")

	targetsChan := make(chan WarmTarget, result.TotalTargets)
	resultsChan := make(chan targetResult, result.TotalTargets)

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for target := range targetsChan {
				select {
				case <-ctx.Done():
					return
				default:
				}
				resultsChan <- j.warmTarget(ctx, target)
			}
		}()
	}

	for _, target := range j.config.Targets {
		targetsChan <- target
	}
	close(targetsChan)

	wg.Wait()
	close(resultsChan)

	for res := range resultsChan {
		if res.successful {
			result.Successful++
		} else {
			result.Failed++
		}
		result.Errors = append(result.Errors, res.errors...)
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)

	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Int("errors", len(result.Errors)).
		Msg("cache warm completed")

	return result
}

type targetResult struct {
	target     WarmTarget
	successful bool
	errors     []WarmError
}

func (j *WarmJob) warmTarget(ctx context.Context, target WarmTarget) targetResult {
	ctx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	res := targetResult{target: target}

	if j.config.WarmPlaces && j.places != nil {
		if _, err := j.places.Places(ctx, target.Name, target.Interests); err != nil {
			res.errors = append(res.errors, WarmError{
				Provider: "places",
				Target:   target.Name,
				Error:    err.Error(),
			})
		} else {
			atomic.AddInt64(&j.metrics.PlacesWarmed, 1)
		}
		if _, err := j.places.HiddenSpots(ctx, target.Name, target.Interests); err != nil {
			res.errors = append(res.errors, WarmError{
				Provider: "hidden_spots",
				Target:   target.Name,
				Error:    err.Error(),
			})
		}
	}

	if j.config.WarmRoutes && j.routes != nil {
		for _, origin := range j.config.Origins {
			if strings.EqualFold(origin, target.Name) {
				continue
			}
			if _, err := j.routes.Route(ctx, origin, target.Name); err != nil {
				res.errors = append(res.errors, WarmError{
					Provider: "routing",
					Target:   target.Name,
					Error:    err.Error(),
				})
			} else {
				atomic.AddInt64(&j.metrics.RoutesWarmed, 1)
			}
		}
	}

	if j.config.WarmWeather && j.weather != nil {
		point := geocode.FallbackPoint(target.Name)
		for day := 0; day < j.config.WeatherDays; day++ {
			date := time.Now().AddDate(0, 0, day)
			if _, err := j.weather.Daily(ctx, point, date); err != nil {
				res.errors = append(res.errors, WarmError{
					Provider: "weather",
					Target:   target.Name,
					Error:    err.Error(),
				})
			} else {
				atomic.AddInt64(&j.metrics.WeatherWarmed, 1)
			}
		}
	}

	res.successful = len(res.errors) == 0

	if !res.successful {
		j.logger.Warn().
			Str("target", target.Name).
			Int("errors", len(res.errors)).
			Msg("destination warmed with errors")
	} else {
		j.logger.Debug().
			Str("target", target.Name).
			Msg("destination warmed")
	}

	return res
}

func (j *WarmJob) updateMetrics(result *WarmResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.SuccessfulWarms += int64(result.Successful)
	j.metrics.FailedWarms += int64(result.Failed)
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *WarmJob) GetMetrics() WarmMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return WarmMetrics{
		TotalRuns:       j.metrics.TotalRuns,
		SuccessfulWarms: j.metrics.SuccessfulWarms,
		FailedWarms:     j.metrics.FailedWarms,
		PlacesWarmed:    atomic.LoadInt64(&j.metrics.PlacesWarmed),
		RoutesWarmed:    atomic.LoadInt64(&j.metrics.RoutesWarmed),
		WeatherWarmed:   atomic.LoadInt64(&j.metrics.WeatherWarmed),
		LastRunAt:       j.metrics.LastRunAt,
		LastRunDuration: j.metrics.LastRunDuration,
		TotalDuration:   j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns metrics as a map for logging.
func (j *WarmJob) MetricsSnapshot() map[string]interface{} {
	metrics := j.GetMetrics()

	return map[string]interface{}{
		"total_runs":        metrics.TotalRuns,
		"successful_warms":  metrics.SuccessfulWarms,
		"failed_warms":      metrics.FailedWarms,
		"places_warmed":     metrics.PlacesWarmed,
		"routes_warmed":     metrics.RoutesWarmed,
		"weather_warmed":    metrics.WeatherWarmed,
		"last_run_at":       metrics.LastRunAt.Format(time.RFC3339),
		"last_run_duration": metrics.LastRunDuration.String(),
	}
}
