package order

import (
	"context"
	"fmt"
	"strings"

	"ordercore/domain"
	"ordercore/domain/event"
	"ordercore/domain/order"
	"ordercore/domain/transition"
	"ordercore/domain/user"

	"github.com/google/uuid"
)

// ActionContext what a handler may touch: the repository set, the publisher and the engine
type ActionContext struct {
	Repositories *domain.Repositories
	Publisher    event.Publisher
	Transitions  *transition.Engine
}

// Handler executes one action. The service emits events only after Handle returns nil.
type Handler[C, R any] interface {
	Handle(ctx context.Context, ac *ActionContext, cmd C) (ActionOutcome[R], error)
}

// HandlerFunc adapts a function to Handler
type HandlerFunc[C, R any] func(ctx context.Context, ac *ActionContext, cmd C) (ActionOutcome[R], error)

func (f HandlerFunc[C, R]) Handle(ctx context.Context, ac *ActionContext, cmd C) (ActionOutcome[R], error) {
	return f(ctx, ac, cmd)
}

// Default handlers
var (
	CreateOrderHandler  Handler[CreateOrderCommand, CreateOrderResult]   = HandlerFunc[CreateOrderCommand, CreateOrderResult](CreateOrder)
	ApproveOrderHandler Handler[ApproveOrderCommand, ApproveOrderResult] = HandlerFunc[ApproveOrderCommand, ApproveOrderResult](ApproveOrder)
	ShipOrderHandler    Handler[ShipOrderCommand, ShipOrderResult]       = HandlerFunc[ShipOrderCommand, ShipOrderResult](ShipOrder)
)

// CreateOrder saves a new order in state created.
// A customer that has no user record yet gets a placeholder user.
func CreateOrder(ctx context.Context, ac *ActionContext, cmd CreateOrderCommand) (ActionOutcome[CreateOrderResult], error) {
	var none ActionOutcome[CreateOrderResult]

	id := strings.TrimSpace(cmd.OrderID)
	if id == "" {
		id = "order-" + uuid.NewString()
	}

	o := &order.Order{
		OrderID:         id,
		Customer:        cmd.Customer,
		TotalAmount:     cmd.TotalAmount,
		DiscountCode:    cmd.DiscountCode,
		Tags:            cmd.Tags,
		ShippingAddress: cmd.ShippingAddress,
		CurrentState:    order.StateCreated,
	}
	if err := o.Validate(); err != nil {
		return none, err
	}

	if err := ensureCustomer(ctx, ac.Repositories.Users, cmd.Customer); err != nil {
		return none, err
	}

	saved, err := ac.Repositories.Orders.Save(ctx, o)
	if err != nil {
		return none, fmt.Errorf("save order %s: %w", id, err)
	}
	return Outcome(CreateOrderResult{Order: saved}), nil
}

func ensureCustomer(ctx context.Context, users user.Repository, ref user.Ref) error {
	_, found, err := users.GetByID(ctx, ref.UserID)
	if err != nil {
		return fmt.Errorf("load customer %s: %w", ref.UserID, err)
	}
	if found {
		return nil
	}
	placeholder, err := user.NewUser(ref.UserID, ref.UserID+"@example.local")
	if err != nil {
		return err
	}
	if _, err := users.Save(ctx, placeholder); err != nil {
		return fmt.Errorf("save customer %s: %w", ref.UserID, err)
	}
	return nil
}

// ApproveOrder runs the approve transition and records the approval details in its payload
func ApproveOrder(ctx context.Context, ac *ActionContext, cmd ApproveOrderCommand) (ActionOutcome[ApproveOrderResult], error) {
	var none ActionOutcome[ApproveOrderResult]
	if strings.TrimSpace(cmd.OrderID) == "" {
		return none, order.NewValidationError("orderId", "orderId cannot be empty")
	}

	draft, err := ac.Transitions.ApproveOrder(ctx, order.Ref{OrderID: cmd.OrderID})
	if err != nil {
		return none, err
	}
	payload := draft.
		ApprovedBy(cmd.ApprovedByUserID).
		NoteCount(len(cmd.Notes)).
		Reason(cmd.Reason).
		Build()

	return Outcome(ApproveOrderResult{Order: draft.Order(), Transition: payload}), nil
}

// ShipOrder runs the ship transition and records the shipment details in its payload
func ShipOrder(ctx context.Context, ac *ActionContext, cmd ShipOrderCommand) (ActionOutcome[ShipOrderResult], error) {
	var none ActionOutcome[ShipOrderResult]
	if strings.TrimSpace(cmd.OrderID) == "" {
		return none, order.NewValidationError("orderId", "orderId cannot be empty")
	}

	draft, err := ac.Transitions.ShipOrder(ctx, order.Ref{OrderID: cmd.OrderID})
	if err != nil {
		return none, err
	}
	payload := draft.
		Carrier(cmd.Carrier).
		TrackingNumber(cmd.TrackingNumber).
		PackageIDs(cmd.PackageIDs...).
		Build()

	return Outcome(ShipOrderResult{Order: draft.Order(), Transition: payload}), nil
}
