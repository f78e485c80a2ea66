package places

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Provider is a public point-of-interest source for a destination.
type Provider interface {
	// Search returns spots at the destination relevant to the interests.
	Search(ctx context.Context, destination string, interests []string) ([]Spot, error)

	// Name returns the provider identifier for logging and health checks.
	Name() string
}

// HiddenSpotStore is a curated source of offbeat spots. Implementations are
// expected to return only spots that qualify as hidden; the service flags
// every result IsHidden regardless.
type HiddenSpotStore interface {
	HiddenSpots(ctx context.Context, destination string, interests []string) ([]Spot, error)
}

// ServiceConfig holds configuration for the place service.
type ServiceConfig struct {
	// Provider is the public place data provider.
	Provider Provider

	// HiddenStore is the hidden-spot source. Optional; nil disables hidden
	// spot lookups (callers receive an empty list).
	HiddenStore HiddenSpotStore

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long place lists stay fresh (default: 6 hours).
	// Place data changes rarely, so the TTL sits between the long-lived
	// route cache and the short-lived weather cache.
	CacheTTL time.Duration

	// StaleIfErrorTTL allows serving stale lists on provider errors
	// (default: 24 hours).
	StaleIfErrorTTL time.Duration
}

// Service provides place lookups with caching keyed on destination and
// sorted interests.
type Service struct {
	provider        Provider
	hiddenStore     HiddenSpotStore
	logger          zerolog.Logger
	cacheTTL        time.Duration
	staleIfErrorTTL time.Duration

	mu    sync.RWMutex
	cache map[string]*cachedSpots
}

type cachedSpots struct {
	spots     []Spot
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a place service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 6 * time.Hour
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 24 * time.Hour
	}

	return &Service{
		provider:        cfg.Provider,
		hiddenStore:     cfg.HiddenStore,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		staleIfErrorTTL: staleIfErrorTTL,
		cache:           make(map[string]*cachedSpots),
	}
}

// Places returns public points of interest for the destination.
func (s *Service) Places(ctx context.Context, destination string, interests []string) ([]Spot, error) {
	key := cacheKey("poi", destination, interests)

	if spots, ok := s.cachedFresh(key); ok {
		return spots, nil
	}

	spots, err := s.provider.Search(ctx, destination, interests)
	if err != nil {
		s.logger.Error().Err(err).
			Str("destination", destination).
			Str("provider", s.provider.Name()).
			Msg("place provider fetch failed")
		if stale, ok := s.cachedStale(key); ok {
			s.logger.Warn().Str("cache_key", key).Msg("serving stale place list after provider error")
			return stale, nil
		}
		return nil, err
	}

	s.store(key, spots)
	return spots, nil
}

// HiddenSpots returns curated offbeat spots for the destination. Every
// returned spot carries IsHidden = true, enforced here so the scorer can
// trust the flag regardless of the store implementation.
func (s *Service) HiddenSpots(ctx context.Context, destination string, interests []string) ([]Spot, error) {
	if s.hiddenStore == nil {
		return nil, nil
	}

	key := cacheKey("hidden", destination, interests)

	if spots, ok := s.cachedFresh(key); ok {
		return spots, nil
	}

	spots, err := s.hiddenStore.HiddenSpots(ctx, destination, interests)
	if err != nil {
		s.logger.Error().Err(err).
			Str("destination", destination).
			Msg("hidden spot store fetch failed")
		if stale, ok := s.cachedStale(key); ok {
			return stale, nil
		}
		return nil, err
	}

	for i := range spots {
		spots[i].IsHidden = true
	}

	s.store(key, spots)
	return spots, nil
}

// CacheSize returns the number of cached place lists.
func (s *Service) CacheSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}

// InvalidateCache clears all cached place lists.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedSpots)
}

func (s *Service) cachedFresh(key string) ([]Spot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		return cached.spots, true
	}
	return nil, false
}

func (s *Service) cachedStale(key string) ([]Spot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
		return cached.spots, true
	}
	return nil, false
}

func (s *Service) store(key string, spots []Spot) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[key] = &cachedSpots{
		spots:     spots,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}
}

// cacheKey builds the deterministic cache key: kind, lowercased destination,
// and the interests sorted so ordering differences share an entry.
func cacheKey(kind, destination string, interests []string) string {
	sorted := make([]string, len(interests))
	for i, interest := range interests {
		sorted[i] = strings.ToLower(interest)
	}
	sort.Strings(sorted)
	return kind + ":" + strings.ToLower(destination) + ":" + strings.Join(sorted, ",")
}
