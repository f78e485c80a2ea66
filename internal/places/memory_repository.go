package places

import (
	"context"
	"strings"
	"sync"
)

// InMemoryHiddenSpotStore is an in-memory hidden-spot store for development
// and tests. Production should use PostgresHiddenSpotStore.
type InMemoryHiddenSpotStore struct {
	mu    sync.RWMutex
	spots map[string][]Spot // keyed by lowercased destination
}

// NewInMemoryHiddenSpotStore creates an empty in-memory store.
func NewInMemoryHiddenSpotStore() *InMemoryHiddenSpotStore {
	return &InMemoryHiddenSpotStore{spots: make(map[string][]Spot)}
}

// Seed adds hidden spots for a destination.
func (r *InMemoryHiddenSpotStore) Seed(destination string, spots ...Spot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(destination)
	r.spots[key] = append(r.spots[key], spots...)
}

// HiddenSpots returns seeded spots whose tags or category overlap the
// requested interests. An empty interest list matches everything.
func (r *InMemoryHiddenSpotStore) HiddenSpots(_ context.Context, destination string, interests []string) ([]Spot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]struct{}, len(interests))
	for _, interest := range interests {
		wanted[strings.ToLower(interest)] = struct{}{}
	}

	var matched []Spot
	for _, s := range r.spots[strings.ToLower(destination)] {
		if len(wanted) == 0 || matchesInterests(s, wanted) {
			cpy := s
			cpy.IsHidden = true
			matched = append(matched, cpy)
		}
	}
	return matched, nil
}

func matchesInterests(s Spot, wanted map[string]struct{}) bool {
	if _, ok := wanted[strings.ToLower(s.Category)]; ok {
		return true
	}
	for _, tag := range s.Tags {
		if _, ok := wanted[strings.ToLower(tag)]; ok {
			return true
		}
	}
	return false
}
