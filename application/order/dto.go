package order

import (
	"ordercore/domain/event"
	"ordercore/domain/order"
	"ordercore/domain/user"
)

// CreateOrderCommand input of the create action. An empty OrderID is minted by the handler.
type CreateOrderCommand struct {
	OrderID         string         `json:"orderId,omitempty"`
	Customer        user.Ref       `json:"customer"`
	TotalAmount     float64        `json:"totalAmount"`
	DiscountCode    *string        `json:"discountCode,omitempty"`
	Tags            []string       `json:"tags,omitempty"`
	ShippingAddress *order.Address `json:"shippingAddress,omitempty"`
}

// ApproveOrderCommand input of the approve action
type ApproveOrderCommand struct {
	OrderID          string   `json:"orderId"`
	ApprovedByUserID string   `json:"approvedByUserId,omitempty"`
	Notes            []string `json:"notes,omitempty"`
	Reason           string   `json:"reason,omitempty"`
}

// ShipOrderCommand input of the ship action
type ShipOrderCommand struct {
	OrderID        string   `json:"orderId"`
	Carrier        string   `json:"carrier,omitempty"`
	TrackingNumber string   `json:"trackingNumber,omitempty"`
	PackageIDs     []string `json:"packageIds,omitempty"`
}

// CreateOrderResult output of the create action
type CreateOrderResult struct {
	Order *order.Order `json:"order"`
}

// ApproveOrderResult output of the approve action
type ApproveOrderResult struct {
	Order      *order.Order            `json:"order"`
	Transition order.ApproveTransition `json:"transition"`
}

// ShipOrderResult output of the ship action
type ShipOrderResult struct {
	Order      *order.Order         `json:"order"`
	Transition order.ShipTransition `json:"transition"`
}

// ActionOutcome handler output plus envelopes to publish alongside the result event
type ActionOutcome[T any] struct {
	Output           T
	AdditionalEvents []event.Envelope
}

// Outcome wraps output with optional additional events
func Outcome[T any](output T, additional ...event.Envelope) ActionOutcome[T] {
	return ActionOutcome[T]{Output: output, AdditionalEvents: additional}
}
