/*
Package order Application Layer - order actions and queries

Responsibilities:
 1. Run an action handler (create, approve, ship) against the repository set
 2. Build the result envelope and publish it once the handler's writes succeeded
 3. Pass plain reads and saves through to the order repository

Publishing:
  - By default the envelopes are published after the handler returns. A publish
    failure is logged and returned, and the state write stays in place.
  - With a UnitOfWork and WithTransactionalPublish the envelopes are handed to
    the publisher inside the same transaction (outbox), so a failed hand-off
    rolls the write back.
*/
package order

import (
	"context"
	"errors"
	"fmt"

	"ordercore/domain"
	"ordercore/domain/event"
	"ordercore/domain/order"
	"ordercore/domain/shared"
	"ordercore/domain/transition"
	"ordercore/pkg/logger"

	"go.uber.org/zap"
)

// UnitOfWork transaction boundary around a handler
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}

type noTransaction struct{}

func (noTransaction) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Service order action service
type Service struct {
	actx        *ActionContext
	uow         UnitOfWork
	source      string
	publishInTx bool

	create  Handler[CreateOrderCommand, CreateOrderResult]
	approve Handler[ApproveOrderCommand, ApproveOrderResult]
	ship    Handler[ShipOrderCommand, ShipOrderResult]
}

// Option configures a Service
type Option func(*Service)

// WithUnitOfWork runs every handler inside uow
func WithUnitOfWork(uow UnitOfWork) Option {
	return func(s *Service) {
		if uow != nil {
			s.uow = uow
		}
	}
}

// WithTransactionalPublish publishes inside the unit of work instead of after it
func WithTransactionalPublish() Option {
	return func(s *Service) { s.publishInTx = true }
}

// WithSource sets the envelope source
func WithSource(source string) Option {
	return func(s *Service) {
		if source != "" {
			s.source = source
		}
	}
}

func WithCreateHandler(h Handler[CreateOrderCommand, CreateOrderResult]) Option {
	return func(s *Service) {
		if h != nil {
			s.create = h
		}
	}
}

func WithApproveHandler(h Handler[ApproveOrderCommand, ApproveOrderResult]) Option {
	return func(s *Service) {
		if h != nil {
			s.approve = h
		}
	}
}

func WithShipHandler(h Handler[ShipOrderCommand, ShipOrderResult]) Option {
	return func(s *Service) {
		if h != nil {
			s.ship = h
		}
	}
}

// NewService Create the order action service.
// A nil publisher becomes NoOpPublisher and a nil engine is built on the repository set.
func NewService(repos *domain.Repositories, publisher event.Publisher, engine *transition.Engine, opts ...Option) (*Service, error) {
	if repos == nil {
		return nil, errors.New("repository set is required")
	}
	if publisher == nil {
		publisher = event.NoOpPublisher{}
	}
	if engine == nil {
		engine = transition.NewEngine(repos)
	}

	s := &Service{
		actx: &ActionContext{
			Repositories: repos,
			Publisher:    publisher,
			Transitions:  engine,
		},
		uow:     noTransaction{},
		source:  DefaultSource,
		create:  CreateOrderHandler,
		approve: ApproveOrderHandler,
		ship:    ShipOrderHandler,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ============================================================================
// Actions
// ============================================================================

// CreateOrder runs the create handler and emits CreateOrderResult.
// On a publish failure the result is returned together with the error.
func (s *Service) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (CreateOrderResult, error) {
	return run(ctx, s, "createOrder", EventCreateOrderResult, s.create, cmd)
}

// ApproveOrder runs the approve handler and emits ApproveOrderResult
func (s *Service) ApproveOrder(ctx context.Context, cmd ApproveOrderCommand) (ApproveOrderResult, error) {
	return run(ctx, s, "approveOrder", EventApproveOrderResult, s.approve, cmd)
}

// ShipOrder runs the ship handler and emits ShipOrderResult
func (s *Service) ShipOrder(ctx context.Context, cmd ShipOrderCommand) (ShipOrderResult, error) {
	return run(ctx, s, "shipOrder", EventShipOrderResult, s.ship, cmd)
}

func run[C, R any](ctx context.Context, s *Service, action, eventType string, h Handler[C, R], cmd C) (R, error) {
	var outcome ActionOutcome[R]

	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		outcome, err = h.Handle(ctx, s.actx, cmd)
		if err != nil {
			return err
		}
		if s.publishInTx {
			return emit(ctx, s, action, eventType, outcome)
		}
		return nil
	})
	if err != nil {
		var zero R
		logger.FromContext(ctx).Warn("Action failed",
			zap.String("action", action),
			zap.Error(err))
		return zero, err
	}

	if !s.publishInTx {
		if err := emit(ctx, s, action, eventType, outcome); err != nil {
			return outcome.Output, err
		}
	}

	logger.FromContext(ctx).Info("Action executed",
		zap.String("action", action),
		zap.String("event_type", eventType),
		zap.Int("additional_events", len(outcome.AdditionalEvents)))
	return outcome.Output, nil
}

func emit[R any](ctx context.Context, s *Service, action, eventType string, outcome ActionOutcome[R]) error {
	envelopes, err := toEnvelopes(ctx, s.source, eventType, outcome)
	if err == nil {
		err = s.actx.Publisher.PublishBatch(ctx, envelopes)
	}
	if err != nil {
		logger.FromContext(ctx).Error("Failed to publish action events",
			zap.String("action", action),
			zap.String("event_type", eventType),
			zap.Error(err))
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}

// ============================================================================
// Queries
// ============================================================================

// GetOrder found is false when the order does not exist
func (s *Service) GetOrder(ctx context.Context, orderID string) (*order.Order, bool, error) {
	return s.actx.Repositories.Orders.GetByID(ctx, orderID)
}

func (s *Service) ListOrders(ctx context.Context, page, size int) (*shared.Page[*order.Order], error) {
	return s.actx.Repositories.Orders.List(ctx, page, size)
}

func (s *Service) QueryOrders(ctx context.Context, filter *order.QueryFilter, page, size int) (*shared.Page[*order.Order], error) {
	return s.actx.Repositories.Orders.Query(ctx, filter, page, size)
}

// SaveOrder plain upsert; emits no event
func (s *Service) SaveOrder(ctx context.Context, o *order.Order) (*order.Order, error) {
	if o == nil {
		return nil, order.NewValidationError("order", "order is required")
	}
	return s.actx.Repositories.Orders.Save(ctx, o)
}
