package domain

import "slices"

// transitions lists the legal targets for each source state.
var transitions = map[Status][]Status{
	StatusPendingPayment:  {StatusOngoing, StatusRefundRequested, StatusCancelled},
	StatusOngoing:         {StatusPendingReview, StatusRefundRequested, StatusCancelled},
	StatusPendingReview:   {StatusCompleted, StatusRefundRequested, StatusCancelled},
	StatusRefundRequested: {StatusCancelled},
	StatusCompleted:       {},
	StatusCancelled:       {},
}

// CanTransition reports whether the lifecycle allows moving from current to target.
func CanTransition(current, target Status) bool {
	allowed, ok := transitions[current]
	if !ok {
		return false
	}
	return slices.Contains(allowed, target)
}

// AllowedTransitions returns the targets reachable from status.
func AllowedTransitions(status Status) []Status {
	return slices.Clone(transitions[status])
}

// AllStatuses lists every lifecycle state in progression order.
func AllStatuses() []Status {
	return []Status{
		StatusPendingPayment,
		StatusOngoing,
		StatusPendingReview,
		StatusCompleted,
		StatusRefundRequested,
		StatusCancelled,
	}
}

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Payable is true while the order still awaits payment.
func (s Status) Payable() bool { return s == StatusPendingPayment }

// Reviewable is true when the buyer may submit a review.
func (s Status) Reviewable() bool { return s == StatusPendingReview }
