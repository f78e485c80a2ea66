package planner_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripwise/tripwise/internal/planner"
)

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	}
}

func validRawRequest() planner.RawTripRequest {
	return planner.RawTripRequest{
		Origin:      "Kochi",
		Destination: "Munnar",
		StartDate:   "2026-09-10",
		EndDate:     "2026-09-12",
		Budget:      15000,
		Interests:   []string{"Nature", " adventure "},
		TravelType:  "family",
	}
}

func TestValidator_Validate_OK(t *testing.T) {
	validator := planner.NewValidatorAt(fixedClock())

	request, err := validator.Validate(validRawRequest())
	require.NoError(t, err)

	assert.Equal(t, "Kochi", request.Origin)
	assert.Equal(t, "Munnar", request.Destination)
	assert.Equal(t, 3, request.DurationDays())
	assert.Equal(t, []string{"nature", "adventure"}, request.Interests)
	assert.Equal(t, "nature", request.PrimaryInterest())
}

func TestValidator_Validate_FieldErrors(t *testing.T) {
	validator := planner.NewValidatorAt(fixedClock())

	tests := []struct {
		name   string
		mutate func(*planner.RawTripRequest)
		field  string
	}{
		{
			name:   "missing origin",
			mutate: func(r *planner.RawTripRequest) { r.Origin = "  " },
			field:  "origin",
		},
		{
			name:   "missing destination",
			mutate: func(r *planner.RawTripRequest) { r.Destination = "" },
			field:  "destination",
		},
		{
			name:   "non-positive budget",
			mutate: func(r *planner.RawTripRequest) { r.Budget = 0 },
			field:  "budget",
		},
		{
			name:   "budget below minimum threshold",
			mutate: func(r *planner.RawTripRequest) { r.Budget = 499 },
			field:  "budget",
		},
		{
			name:   "malformed start date",
			mutate: func(r *planner.RawTripRequest) { r.StartDate = "10-09-2026" },
			field:  "start_date",
		},
		{
			name:   "start date in the past",
			mutate: func(r *planner.RawTripRequest) { r.StartDate = "2026-08-20"; r.EndDate = "2026-08-22" },
			field:  "start_date",
		},
		{
			name:   "end before start",
			mutate: func(r *planner.RawTripRequest) { r.EndDate = "2026-09-09" },
			field:  "end_date",
		},
		{
			name:   "span over thirty days",
			mutate: func(r *planner.RawTripRequest) { r.EndDate = "2026-10-15" },
			field:  "end_date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRawRequest()
			tt.mutate(&raw)

			_, err := validator.Validate(raw)
			require.Error(t, err)

			var validationErr *planner.ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.NotEmpty(t, validationErr.Errors)
			assert.Equal(t, tt.field, validationErr.Errors[0].Field)
		})
	}
}

func TestValidator_Validate_StartTodayAllowed(t *testing.T) {
	validator := planner.NewValidatorAt(fixedClock())

	raw := validRawRequest()
	raw.StartDate = "2026-09-01"
	raw.EndDate = "2026-09-01"

	request, err := validator.Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, 1, request.DurationDays())
}

func TestValidator_Validate_CollectsAllViolations(t *testing.T) {
	validator := planner.NewValidatorAt(fixedClock())

	raw := validRawRequest()
	raw.Origin = ""
	raw.Budget = -5

	_, err := validator.Validate(raw)
	var validationErr *planner.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Errors, 2)
}
