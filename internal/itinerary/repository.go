package itinerary

import "context"

// ListOptions contains options for listing itineraries.
type ListOptions struct {
	Limit  int
	Cursor string
}

// ListResult contains the results of listing itineraries.
type ListResult struct {
	Items      []*Record
	NextCursor string
}

// Repository defines the interface for itinerary persistence.
type Repository interface {
	// GetByUserAndID retrieves an itinerary by user ID and itinerary ID.
	// Returns ErrItineraryNotFound if it doesn't exist or doesn't belong to the user.
	GetByUserAndID(ctx context.Context, userID, itineraryID string) (*Record, error)

	// List retrieves itineraries for a user with pagination, newest first.
	List(ctx context.Context, userID string, opts ListOptions) (*ListResult, error)

	// Create stores a new itinerary record.
	Create(ctx context.Context, record *Record) error

	// Delete removes an itinerary owned by the user.
	Delete(ctx context.Context, userID, itineraryID string) error
}
