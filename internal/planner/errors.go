package planner

import "fmt"

// FieldError describes one invalid request field.
type FieldError struct {
	Field  string
	Reason string
}

// ValidationError reports invalid trip request fields.
// Raised before any collaborator is queried.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Errors[0].Field, e.Errors[0].Reason)
}

// BudgetInsufficientError means the hotel cost alone exceeds the budget.
// Surfaced immediately after hotel selection; no scheduling is attempted.
type BudgetInsufficientError struct {
	HotelCost float64
	Budget    float64
}

func (e *BudgetInsufficientError) Error() string {
	return fmt.Sprintf("hotel cost %.2f exceeds budget %.2f", e.HotelCost, e.Budget)
}

// BudgetExceededError means the reconciled total exceeds the budget tolerance.
// The built plan is discarded; no partial itinerary is returned.
type BudgetExceededError struct {
	Total  float64
	Budget float64
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("itinerary cost %.2f exceeds budget %.2f beyond tolerance", e.Total, e.Budget)
}
