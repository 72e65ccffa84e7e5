package transition

import (
	"context"

	"ordercore/domain/order"
)

// ValidationResult outcome of a transition validator
type ValidationResult struct {
	ok     bool
	reason string
}

// Passed the transition may proceed
func Passed() ValidationResult {
	return ValidationResult{ok: true}
}

// Failed the transition is refused with reason
func Failed(reason string) ValidationResult {
	return ValidationResult{reason: reason}
}

func (r ValidationResult) OK() bool       { return r.ok }
func (r ValidationResult) Reason() string { return r.reason }

// Validator business checks run against the freshly read order, before any write
type Validator interface {
	ValidateApproveOrder(ctx context.Context, current *order.Order) ValidationResult
	ValidateShipOrder(ctx context.Context, current *order.Order) ValidationResult
}

// DefaultValidator passes every transition
type DefaultValidator struct{}

func (DefaultValidator) ValidateApproveOrder(context.Context, *order.Order) ValidationResult {
	return Passed()
}

func (DefaultValidator) ValidateShipOrder(context.Context, *order.Order) ValidationResult {
	return Passed()
}
