package planner

import (
	"strings"
	"time"
)

const (
	// MinPlanningBudget is the smallest budget a plan can be built for.
	MinPlanningBudget = 500

	// MaxTripDays is the longest supported trip span.
	MaxTripDays = 30
)

// RawTripRequest holds unvalidated request fields as received.
type RawTripRequest struct {
	Origin      string
	Destination string
	StartDate   string // YYYY-MM-DD
	EndDate     string // YYYY-MM-DD
	Budget      float64
	Interests   []string
	TravelType  string
}

// Validator normalizes and validates raw trip requests.
// The clock is injectable for testing date rules.
type Validator struct {
	now func() time.Time
}

// NewValidator creates a validator using the system clock.
func NewValidator() *Validator {
	return &Validator{now: time.Now}
}

// NewValidatorAt creates a validator with a fixed clock.
func NewValidatorAt(now func() time.Time) *Validator {
	return &Validator{now: now}
}

// Validate checks the raw request and returns an immutable TripRequest.
// All field violations are collected into a single ValidationError.
func (v *Validator) Validate(raw RawTripRequest) (TripRequest, error) {
	var fieldErrors []FieldError

	origin := strings.TrimSpace(raw.Origin)
	if origin == "" {
		fieldErrors = append(fieldErrors, FieldError{Field: "origin", Reason: "is required"})
	}

	destination := strings.TrimSpace(raw.Destination)
	if destination == "" {
		fieldErrors = append(fieldErrors, FieldError{Field: "destination", Reason: "is required"})
	}

	if raw.Budget <= 0 {
		fieldErrors = append(fieldErrors, FieldError{Field: "budget", Reason: "must be a positive number"})
	} else if raw.Budget < MinPlanningBudget {
		fieldErrors = append(fieldErrors, FieldError{
			Field:  "budget",
			Reason: "is below the minimum planning threshold",
		})
	}

	start, startErr := parseDate(raw.StartDate)
	if startErr != nil {
		fieldErrors = append(fieldErrors, FieldError{Field: "start_date", Reason: "must be a valid YYYY-MM-DD date"})
	}
	end, endErr := parseDate(raw.EndDate)
	if endErr != nil {
		fieldErrors = append(fieldErrors, FieldError{Field: "end_date", Reason: "must be a valid YYYY-MM-DD date"})
	}

	if startErr == nil && endErr == nil {
		if end.Before(start) {
			fieldErrors = append(fieldErrors, FieldError{Field: "end_date", Reason: "must not be before start date"})
		} else {
			today := truncateToDay(v.now())
			if start.Before(today) {
				fieldErrors = append(fieldErrors, FieldError{Field: "start_date", Reason: "must not be in the past"})
			}
			if span := int(end.Sub(start).Hours()/24) + 1; span > MaxTripDays {
				fieldErrors = append(fieldErrors, FieldError{Field: "end_date", Reason: "trip span exceeds 30 days"})
			}
		}
	}

	if len(fieldErrors) > 0 {
		return TripRequest{}, &ValidationError{Errors: fieldErrors}
	}

	interests := make([]string, 0, len(raw.Interests))
	for _, tag := range raw.Interests {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			interests = append(interests, tag)
		}
	}

	return TripRequest{
		Origin:      origin,
		Destination: destination,
		StartDate:   start,
		EndDate:     end,
		Budget:      raw.Budget,
		Interests:   interests,
		TravelType:  strings.TrimSpace(raw.TravelType),
	}, nil
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(s))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
