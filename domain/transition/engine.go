/*
Package transition executes order lifecycle transitions.

Each transition re-reads the persisted order, checks the from-state, runs the
validator, writes the target state through the repository and only then
returns a draft. The read and the write are separate calls, so two concurrent
transitions on the same order can both pass the check; the last write wins.
*/
package transition

import (
	"context"
	"fmt"

	"ordercore/domain"
	"ordercore/domain/order"
	"ordercore/pkg/logger"

	"go.uber.org/zap"
)

// Engine order transition engine
type Engine struct {
	repos     *domain.Repositories
	validator Validator
}

// Option configures an Engine
type Option func(*Engine)

// WithValidator replaces the default always-pass validator
func WithValidator(v Validator) Option {
	return func(e *Engine) {
		if v != nil {
			e.validator = v
		}
	}
}

func NewEngine(repos *domain.Repositories, opts ...Option) *Engine {
	e := &Engine{repos: repos, validator: DefaultValidator{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ApproveOrder created -> approved
func (e *Engine) ApproveOrder(ctx context.Context, ref order.Ref) (*ApproveDraft, error) {
	saved, from, err := e.apply(ctx, ref, order.TransitionApprove, e.validator.ValidateApproveOrder)
	if err != nil {
		return nil, err
	}
	return &ApproveDraft{
		order: saved,
		payload: order.ApproveTransition{
			Object:    saved.Ref(),
			FromState: from,
			ToState:   saved.CurrentState,
		},
	}, nil
}

// ShipOrder approved -> shipped
func (e *Engine) ShipOrder(ctx context.Context, ref order.Ref) (*ShipDraft, error) {
	saved, from, err := e.apply(ctx, ref, order.TransitionShip, e.validator.ValidateShipOrder)
	if err != nil {
		return nil, err
	}
	return &ShipDraft{
		order: saved,
		payload: order.ShipTransition{
			Object:    saved.Ref(),
			FromState: from,
			ToState:   saved.CurrentState,
		},
	}, nil
}

type validateFunc func(ctx context.Context, current *order.Order) ValidationResult

func (e *Engine) apply(ctx context.Context, ref order.Ref, t order.Transition, validate validateFunc) (*order.Order, order.State, error) {
	current, found, err := e.repos.Orders.GetByID(ctx, ref.OrderID)
	if err != nil {
		return nil, "", fmt.Errorf("load order %s: %w", ref.OrderID, err)
	}
	if !found {
		return nil, "", order.NewTransitionNotFoundError(t, ref.OrderID)
	}

	from := current.CurrentState
	if from != t.From() {
		return nil, "", order.NewInvalidTransitionError(t, from)
	}

	if result := validate(ctx, current); !result.OK() {
		return nil, "", order.NewTransitionRejectedError(t, result.Reason())
	}

	next := current.Clone()
	if err := next.Apply(t); err != nil {
		return nil, "", err
	}

	saved, err := e.repos.Orders.Save(ctx, next)
	if err != nil {
		return nil, "", fmt.Errorf("save order %s: %w", ref.OrderID, err)
	}

	logger.Info("Order transition applied",
		zap.String("order_id", saved.OrderID),
		zap.String("transition", string(t)),
		zap.String("from_state", string(from)),
		zap.String("to_state", string(saved.CurrentState)))

	return saved, from, nil
}
