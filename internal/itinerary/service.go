package itinerary

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tripwise/tripwise/internal/planner"
)

// Service manages itinerary persistence on top of a Repository.
type Service struct {
	repo   Repository
	logger zerolog.Logger
	now    func() time.Time
}

// ServiceConfig holds configuration for the itinerary service.
type ServiceConfig struct {
	Repository Repository
	Logger     zerolog.Logger
}

// NewService creates a new itinerary service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
		now:    time.Now,
	}
}

// Save persists a generated itinerary for a user and returns the record.
func (s *Service) Save(ctx context.Context, userID string, plan *planner.Itinerary) (*Record, error) {
	record := &Record{
		ID:          "itn_" + uuid.New().String()[:22],
		UserID:      userID,
		Origin:      plan.Request.Origin,
		Destination: plan.Request.Destination,
		StartDate:   plan.Request.StartDate,
		EndDate:     plan.Request.EndDate,
		TotalCost:   plan.Costs.Total,
		Plan:        *plan,
		CreatedAt:   s.now(),
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("itinerary_id", record.ID).
		Str("destination", record.Destination).
		Float64("total_cost", record.TotalCost).
		Msg("itinerary saved")

	return record, nil
}

// Get retrieves an itinerary owned by the user.
func (s *Service) Get(ctx context.Context, userID, itineraryID string) (*Record, error) {
	return s.repo.GetByUserAndID(ctx, userID, itineraryID)
}

// List retrieves the user's itineraries, newest first.
func (s *Service) List(ctx context.Context, userID string, opts ListOptions) (*ListResult, error) {
	return s.repo.List(ctx, userID, opts)
}

// Delete removes an itinerary owned by the user.
func (s *Service) Delete(ctx context.Context, userID, itineraryID string) error {
	return s.repo.Delete(ctx, userID, itineraryID)
}
