package order

import (
	"fmt"

	"ordercore/domain/shared"
)

// NewTransitionNotFoundError the order addressed by a transition does not exist
func NewTransitionNotFoundError(t Transition, orderID string) error {
	return &orderDomainError{
		sentinel: shared.ErrNotFound,
		entity:   "order",
		field:    orderID,
		message:  fmt.Sprintf("Order not found for transition '%s'", t),
		stack:    shared.CaptureStack(3),
	}
}

// NewInvalidTransitionError the persisted state does not permit the move
func NewInvalidTransitionError(t Transition, actual State) error {
	return &orderDomainError{
		sentinel: shared.ErrInvalidTransition,
		entity:   "order",
		field:    "currentState",
		message:  fmt.Sprintf("Invalid state transition Order.%s: expected %s but was %s", t, t.From(), actual),
		stack:    shared.CaptureStack(3),
	}
}

// NewTransitionRejectedError a validator refused the move
func NewTransitionRejectedError(t Transition, reason string) error {
	if reason == "" {
		reason = fmt.Sprintf("transition %s rejected", t)
	}
	return &orderDomainError{
		sentinel: shared.ErrTransitionRejected,
		entity:   "order",
		message:  reason,
		stack:    shared.CaptureStack(3),
	}
}

// NewValidationError invalid order field
func NewValidationError(field, message string) error {
	return &orderDomainError{
		sentinel: shared.ErrInvalidInput,
		entity:   "order",
		field:    field,
		message:  message,
		stack:    shared.CaptureStack(3),
	}
}

type orderDomainError struct {
	sentinel error
	entity   string
	field    string
	message  string
	stack    []uintptr
}

func (e *orderDomainError) Error() string   { return e.message }
func (e *orderDomainError) Unwrap() error   { return e.sentinel }
func (e *orderDomainError) Stack() []string { return shared.FormatStack(e.stack) }
