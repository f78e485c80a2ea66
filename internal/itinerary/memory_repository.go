package itinerary

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewInMemoryRepository creates a new in-memory itinerary repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		records: make(map[string]*Record),
	}
}

// GetByUserAndID retrieves an itinerary by user ID and itinerary ID.
func (r *InMemoryRepository) GetByUserAndID(_ context.Context, userID, itineraryID string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[itineraryID]
	if !ok || record.UserID != userID {
		return nil, ErrItineraryNotFound
	}

	// Return a copy
	cpy := *record
	return &cpy, nil
}

// List retrieves itineraries for a user with pagination, newest first.
func (r *InMemoryRepository) List(_ context.Context, userID string, opts ListOptions) (*ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*Record
	for _, record := range r.records {
		if record.UserID == userID {
			cpy := *record
			records = append(records, &cpy)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	result := &ListResult{
		Items: records,
	}

	if len(records) > limit {
		result.Items = records[:limit]
		result.NextCursor = records[limit-1].ID
	}

	return result, nil
}

// Create stores a new itinerary record.
func (r *InMemoryRepository) Create(_ context.Context, record *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *record
	r.records[record.ID] = &cpy
	return nil
}

// Delete removes an itinerary owned by the user.
func (r *InMemoryRepository) Delete(_ context.Context, userID, itineraryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[itineraryID]
	if !ok || record.UserID != userID {
		return ErrItineraryNotFound
	}

	delete(r.records, itineraryID)
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
