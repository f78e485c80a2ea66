package weather

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripwise/tripwise/pkg/geo"
)

// ServiceConfig holds configuration for the weather service.
type ServiceConfig struct {
	// Provider is the weather data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache weather data (default: 30 minutes).
	// Weather is the shortest-lived collaborator data.
	CacheTTL time.Duration

	// CacheGridSize is the size of cache grid cells in degrees (default: 0.1).
	// Points within the same grid cell on the same day share cached data.
	CacheGridSize float64

	// StaleIfErrorTTL allows serving stale data on provider errors (default: 3 hours).
	StaleIfErrorTTL time.Duration
}

// Service provides weather snapshots with caching.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	cacheGridSize   float64
	staleIfErrorTTL time.Duration

	mu              sync.RWMutex
	cache           map[string]*cachedSnapshot
	lastCleanup     time.Time
	cleanupInterval time.Duration
}

type cachedSnapshot struct {
	snapshot  *Snapshot
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new weather service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 30 * time.Minute
	}

	cacheGridSize := cfg.CacheGridSize
	if cacheGridSize == 0 {
		cacheGridSize = 0.1 // ~11km at equator
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 3 * time.Hour
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		cacheGridSize:   cacheGridSize,
		staleIfErrorTTL: staleIfErrorTTL,
		cache:           make(map[string]*cachedSnapshot),
		cleanupInterval: 5 * time.Minute,
	}
}

// Daily returns the weather snapshot for a location on a calendar day.
// Uses cached data if available and not expired.
func (s *Service) Daily(ctx context.Context, location geo.Point, date time.Time) (*Snapshot, error) {
	cacheKey := s.cacheKey(location, date)

	// Check cache
	s.mu.RLock()
	if cached, ok := s.cache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		return cached.snapshot, nil
	}
	s.mu.RUnlock()

	// Fetch from provider
	return s.fetchDaily(ctx, location, date, cacheKey)
}

// fetchDaily fetches a snapshot from the provider and updates the cache.
func (s *Service) fetchDaily(ctx context.Context, location geo.Point, date time.Time, cacheKey string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check cache
	if cached, ok := s.cache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		return cached.snapshot, nil
	}

	s.logger.Debug().
		Float64("lat", location.Lat).
		Float64("lon", location.Lon).
		Str("date", date.Format("2006-01-02")).
		Str("provider", s.provider.Name()).
		Msg("fetching weather snapshot from provider")

	snapshot, err := s.provider.Daily(ctx, location, date)
	if err != nil {
		s.logger.Error().Err(err).
			Float64("lat", location.Lat).
			Float64("lon", location.Lon).
			Str("date", date.Format("2006-01-02")).
			Msg("failed to fetch weather snapshot")

		// Check for stale data
		if cached, ok := s.cache[cacheKey]; ok {
			if time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
				s.logger.Warn().
					Time("fetched_at", cached.fetchedAt).
					Msg("serving stale weather data due to provider error")
				return cached.snapshot, nil
			}
		}

		return nil, ErrProviderUnavailable
	}

	// Update cache
	now := time.Now()
	s.cache[cacheKey] = &cachedSnapshot{
		snapshot:  snapshot,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}

	// Periodic cleanup
	s.cleanupIfNeeded()

	return snapshot, nil
}

// cacheKey generates a cache key for a location and calendar day.
// Groups nearby points into grid cells to reduce API calls.
func (s *Service) cacheKey(location geo.Point, date time.Time) string {
	gridLat := math.Floor(location.Lat/s.cacheGridSize) * s.cacheGridSize
	gridLon := math.Floor(location.Lon/s.cacheGridSize) * s.cacheGridSize
	return fmt.Sprintf("%.1f:%.1f:%s", gridLat, gridLon, date.Format("2006-01-02"))
}

// cleanupIfNeeded removes expired entries if cleanup interval has passed.
func (s *Service) cleanupIfNeeded() {
	now := time.Now()
	if now.Sub(s.lastCleanup) < s.cleanupInterval {
		return
	}

	s.lastCleanup = now
	expired := 0

	for key, cached := range s.cache {
		if now.After(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
			delete(s.cache, key)
			expired++
		}
	}

	if expired > 0 {
		s.logger.Debug().
			Int("expired_entries", expired).
			Msg("cleaned up expired weather cache entries")
	}
}

// InvalidateCache clears all cached data.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedSnapshot)
}

// CacheStats returns cache statistics.
func (s *Service) CacheStats() CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	fresh := 0

	for _, c := range s.cache {
		if now.Before(c.expiresAt) {
			fresh++
		}
	}

	return CacheStats{
		TotalEntries: len(s.cache),
		FreshEntries: fresh,
		Provider:     s.provider.Name(),
	}
}

// CacheStats contains cache statistics.
type CacheStats struct {
	TotalEntries int
	FreshEntries int
	Provider     string
}
