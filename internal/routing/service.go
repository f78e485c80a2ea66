package routing

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the routing service.
type ServiceConfig struct {
	// Provider is the routing data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache route estimates (default: 24 hours).
	// Road networks change rarely, so estimates stay valid for a long time.
	CacheTTL time.Duration

	// StaleIfErrorTTL allows serving stale data on provider errors (default: 72 hours).
	StaleIfErrorTTL time.Duration

	// CleanupInterval is how often to clean up expired entries (default: 1 hour).
	CleanupInterval time.Duration
}

// Service provides route estimates with caching.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	staleIfErrorTTL time.Duration
	cleanupInterval time.Duration

	mu          sync.RWMutex
	cache       map[string]*cachedEstimate
	lastCleanup time.Time
}

type cachedEstimate struct {
	estimate  *Estimate
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new routing service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 72 * time.Hour
	}

	cleanupInterval := cfg.CleanupInterval
	if cleanupInterval == 0 {
		cleanupInterval = time.Hour
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		staleIfErrorTTL: staleIfErrorTTL,
		cleanupInterval: cleanupInterval,
		cache:           make(map[string]*cachedEstimate),
	}
}

// Route returns a driving estimate between two named places.
// Uses cached data if available and not expired.
func (s *Service) Route(ctx context.Context, origin, destination string) (*Estimate, error) {
	cacheKey := routeCacheKey(origin, destination)

	// Check cache (read lock)
	s.mu.RLock()
	if cached, ok := s.cache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		s.logger.Debug().
			Str("cache_key", cacheKey).
			Msg("cache hit for route estimate")
		return cached.estimate, nil
	}
	s.mu.RUnlock()

	// Fetch from provider
	return s.fetchRoute(ctx, origin, destination, cacheKey)
}

// fetchRoute fetches an estimate from the provider and updates the cache.
func (s *Service) fetchRoute(ctx context.Context, origin, destination, cacheKey string) (*Estimate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check cache (prevents thundering herd)
	if cached, ok := s.cache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		s.logger.Debug().
			Str("cache_key", cacheKey).
			Msg("cache hit after double-check")
		return cached.estimate, nil
	}

	s.logger.Debug().
		Str("origin", origin).
		Str("destination", destination).
		Str("provider", s.provider.Name()).
		Msg("fetching route estimate from provider")

	estimate, err := s.provider.Route(ctx, origin, destination)
	if err != nil {
		s.logger.Error().Err(err).
			Str("origin", origin).
			Str("destination", destination).
			Msg("failed to fetch route estimate")

		// Check for stale data (stale-if-error pattern)
		if cached, ok := s.cache[cacheKey]; ok {
			if time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
				s.logger.Warn().
					Time("fetched_at", cached.fetchedAt).
					Str("cache_key", cacheKey).
					Msg("serving stale route estimate due to provider error")
				return cached.estimate, nil
			}
		}

		return nil, err
	}

	// Update cache
	now := time.Now()
	s.cache[cacheKey] = &cachedEstimate{
		estimate:  estimate,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}

	s.logger.Debug().
		Str("cache_key", cacheKey).
		Float64("distance_km", estimate.DistanceKm).
		Float64("duration_hours", estimate.DurationHours).
		Msg("cached route estimate")

	// Periodic cleanup
	s.cleanupIfNeeded()

	return estimate, nil
}

// routeCacheKey hashes the normalized origin/destination pair.
// The pair is directional; A->B and B->A are cached separately.
func routeCacheKey(origin, destination string) string {
	h := fnv.New64a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(origin))))
	h.Write([]byte("|"))
	h.Write([]byte(strings.ToLower(strings.TrimSpace(destination))))
	return fmt.Sprintf("route:%x", h.Sum64())
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
		// Remove entries that are past the stale-if-error window
		if now.After(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
			delete(s.cache, key)
			expired++
		}
	}

	if expired > 0 {
		s.logger.Debug().
			Int("expired_entries", expired).
			Msg("cleaned up expired routing cache entries")
	}
}

// InvalidateCache clears all cached data.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedEstimate)
}

// CacheStats returns cache statistics.
func (s *Service) CacheStats() CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	fresh := 0
	stale := 0

	for _, c := range s.cache {
		if now.Before(c.expiresAt) {
			fresh++
		} else if now.Before(c.fetchedAt.Add(s.staleIfErrorTTL)) {
			stale++
		}
	}

	return CacheStats{
		TotalEntries: len(s.cache),
		FreshEntries: fresh,
		StaleEntries: stale,
		Provider:     s.provider.Name(),
	}
}

// CacheStats contains cache statistics.
type CacheStats struct {
	TotalEntries int
	FreshEntries int
	StaleEntries int
	Provider     string
}

// ProviderName returns the name of the underlying provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}
