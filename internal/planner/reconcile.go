package planner

import "math"

// BudgetTolerance is the fraction by which the reconciled total may exceed
// the requested budget before construction fails.
const BudgetTolerance = 0.1

// ReconcileCosts sums the per-category spend and checks it against the
// budget tolerance. On violation the built plan is discarded and a
// BudgetExceededError is returned instead of a partial breakdown.
func ReconcileCosts(budget, accommodation, activities, meals float64) (CostBreakdown, float64, error) {
	total := accommodation + activities + meals

	if total > budget*(1+BudgetTolerance) {
		return CostBreakdown{}, 0, &BudgetExceededError{Total: total, Budget: budget}
	}

	utilization := math.Round(total/budget*1000) / 10

	return CostBreakdown{
		Accommodation: accommodation,
		Activities:    activities,
		Meals:         meals,
		Total:         total,
	}, utilization, nil
}
