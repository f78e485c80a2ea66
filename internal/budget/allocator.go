// Package budget splits a trip budget into category envelopes and predicts
// expected spend via an external model.
package budget

// SplitPolicy defines the fraction of the total budget assigned to each
// spend category for multi-day trips. MaxHotelShare is a separate, wider
// ceiling used only to bound hotel search.
type SplitPolicy struct {
	Accommodation float64
	Activities    float64
	Meals         float64
	MaxHotelShare float64
}

// DefaultSplitPolicy is the standard multi-day split.
func DefaultSplitPolicy() SplitPolicy {
	return SplitPolicy{
		Accommodation: 0.5,
		Activities:    0.3,
		Meals:         0.2,
		MaxHotelShare: 0.6,
	}
}

// singleDaySplit reallocates the accommodation share for day trips.
var singleDaySplit = SplitPolicy{
	Accommodation: 0,
	Activities:    0.6,
	Meals:         0.4,
	MaxHotelShare: 0,
}

// Envelope holds the per-category budget amounts for one trip.
// The amounts measure planned spend; MaxHotelBudget bounds hotel search
// and is deliberately wider than the accommodation envelope.
type Envelope struct {
	Accommodation  float64
	Activities     float64
	Meals          float64
	MaxHotelBudget float64
}

// Allocator splits trip budgets according to a policy.
type Allocator struct {
	policy SplitPolicy
}

// NewAllocator creates an allocator with the given policy.
// A zero policy falls back to the default split.
func NewAllocator(policy SplitPolicy) *Allocator {
	if policy == (SplitPolicy{}) {
		policy = DefaultSplitPolicy()
	}
	return &Allocator{policy: policy}
}

// Allocate splits the total budget for a trip of the given duration in days.
// Single-day trips carry no accommodation envelope.
func (a *Allocator) Allocate(total float64, durationDays int) Envelope {
	policy := a.policy
	if durationDays <= 1 {
		policy = singleDaySplit
	}

	return Envelope{
		Accommodation:  total * policy.Accommodation,
		Activities:     total * policy.Activities,
		Meals:          total * policy.Meals,
		MaxHotelBudget: total * policy.MaxHotelShare,
	}
}
