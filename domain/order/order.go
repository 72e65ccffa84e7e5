/*
Package order Order subdomain.

An Order is addressed by its natural key (orderId) and moves through a closed
lifecycle: created -> approved -> shipped. State changes go through Approve and
Ship so the from-state check lives in one place; persistence is the
repository's job and event emission belongs to the caller.
*/
package order

import (
	"math"
	"slices"
	"strings"

	"ordercore/domain/shared"
	"ordercore/domain/user"
)

// Order order record
type Order struct {
	OrderID         string   `json:"orderId"`
	Customer        user.Ref `json:"customer"`
	TotalAmount     float64  `json:"totalAmount"`
	DiscountCode    *string  `json:"discountCode,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	ShippingAddress *Address `json:"shippingAddress,omitempty"`
	CurrentState    State    `json:"currentState"`

	// Approval metadata
	ApprovedByUserID *string  `json:"approvedByUserId,omitempty"`
	ApprovalNotes    []string `json:"approvalNotes,omitempty"`
	ApprovalReason   *string  `json:"approvalReason,omitempty"`

	// Shipping metadata
	ShippingCarrier        *string  `json:"shippingCarrier,omitempty"`
	ShippingTrackingNumber *string  `json:"shippingTrackingNumber,omitempty"`
	ShippingPackageIDs     []string `json:"shippingPackageIds,omitempty"`
}

// Address shipping address value object
type Address struct {
	Line1       string `json:"line1"`
	City        string `json:"city"`
	CountryCode string `json:"countryCode"`
}

// Ref reference to an order by natural key
type Ref struct {
	OrderID string `json:"orderId"`
}

// NaturalKey implements shared.Entity
func (o *Order) NaturalKey() string {
	return o.OrderID
}

// Ref returns a reference to this order
func (o *Order) Ref() Ref {
	return Ref{OrderID: o.OrderID}
}

// Validate checks the fields every backend relies on
func (o *Order) Validate() error {
	if strings.TrimSpace(o.OrderID) == "" {
		return NewValidationError("orderId", "orderId cannot be empty")
	}
	if strings.TrimSpace(o.Customer.UserID) == "" {
		return NewValidationError("customer", "customer userId cannot be empty")
	}
	if math.IsNaN(o.TotalAmount) || math.IsInf(o.TotalAmount, 0) || o.TotalAmount < 0 {
		return NewValidationError("totalAmount", "totalAmount must be a finite, non-negative number")
	}
	if o.CurrentState != "" && !o.CurrentState.IsValid() {
		return NewValidationError("currentState", "unknown state: "+string(o.CurrentState))
	}
	return nil
}

// WithDefaults returns the state a backend stores on insert: an empty state becomes created
func (o *Order) WithDefaults() *Order {
	c := o.Clone()
	if c.CurrentState == "" {
		c.CurrentState = StateCreated
	}
	return c
}

// Clone deep copy; in-memory stores never share slices or pointers with callers
func (o *Order) Clone() *Order {
	c := *o
	c.DiscountCode = cloneString(o.DiscountCode)
	c.Tags = slices.Clone(o.Tags)
	if o.ShippingAddress != nil {
		addr := *o.ShippingAddress
		c.ShippingAddress = &addr
	}
	c.ApprovedByUserID = cloneString(o.ApprovedByUserID)
	c.ApprovalNotes = slices.Clone(o.ApprovalNotes)
	c.ApprovalReason = cloneString(o.ApprovalReason)
	c.ShippingCarrier = cloneString(o.ShippingCarrier)
	c.ShippingTrackingNumber = cloneString(o.ShippingTrackingNumber)
	c.ShippingPackageIDs = slices.Clone(o.ShippingPackageIDs)
	return &c
}

// ============================================================================
// State change methods
// ============================================================================

// Approve created -> approved
func (o *Order) Approve() error {
	return o.Apply(TransitionApprove)
}

// Ship approved -> shipped
func (o *Order) Ship() error {
	return o.Apply(TransitionShip)
}

// Apply moves the order along t when its current state permits it
func (o *Order) Apply(t Transition) error {
	if o.CurrentState != t.From() {
		return NewInvalidTransitionError(t, o.CurrentState)
	}
	o.CurrentState = t.To()
	return nil
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

var _ shared.Entity = (*Order)(nil)
