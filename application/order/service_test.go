package order

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"ordercore/domain"
	"ordercore/domain/event"
	"ordercore/domain/order"
	"ordercore/domain/shared"
	"ordercore/domain/transition"
	"ordercore/domain/user"
	"ordercore/infrastructure/persistence"
	"ordercore/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu      sync.Mutex
	batches [][]event.Envelope
	err     error
}

func (p *recordingPublisher) Publish(ctx context.Context, envelope event.Envelope) error {
	return p.PublishBatch(ctx, []event.Envelope{envelope})
}

func (p *recordingPublisher) PublishBatch(_ context.Context, envelopes []event.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.batches = append(p.batches, envelopes)
	return nil
}

func (p *recordingPublisher) envelopes() []event.Envelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []event.Envelope
	for _, b := range p.batches {
		out = append(out, b...)
	}
	return out
}

type countingUoW struct {
	calls  int
	inside bool
}

func (u *countingUoW) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	u.calls++
	u.inside = true
	defer func() { u.inside = false }()
	return fn(ctx)
}

func newRepos(t *testing.T) *domain.Repositories {
	t.Helper()
	repos, err := domain.NewRepositories(memory.NewOrderRepository(), memory.NewUserRepository())
	require.NoError(t, err)
	return repos
}

func newService(t *testing.T, repos *domain.Repositories, pub event.Publisher, opts ...Option) *Service {
	t.Helper()
	svc, err := NewService(repos, pub, nil, opts...)
	require.NoError(t, err)
	return svc
}

func createOrder(t *testing.T, svc *Service, id string) *order.Order {
	t.Helper()
	result, err := svc.CreateOrder(context.Background(), CreateOrderCommand{
		OrderID:     id,
		Customer:    user.Ref{UserID: "u-1"},
		TotalAmount: 99.5,
		Tags:        []string{"priority"},
	})
	require.NoError(t, err)
	return result.Order
}

func TestNewServiceRequiresRepositories(t *testing.T) {
	_, err := NewService(nil, nil, nil)
	require.Error(t, err)
}

func TestCreateOrder(t *testing.T) {
	repos := newRepos(t)
	pub := &recordingPublisher{}
	svc := newService(t, repos, pub)
	ctx := persistence.ContextWithRequestID(context.Background(), "req-42")

	result, err := svc.CreateOrder(ctx, CreateOrderCommand{
		Customer:    user.Ref{UserID: "u-1"},
		TotalAmount: 10,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Order)
	assert.True(t, strings.HasPrefix(result.Order.OrderID, "order-"))
	assert.Equal(t, order.StateCreated, result.Order.CurrentState)

	stored, found, err := repos.Orders.GetByID(ctx, result.Order.OrderID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, order.StateCreated, stored.CurrentState)

	envelopes := pub.envelopes()
	require.Len(t, envelopes, 1)
	env := envelopes[0]
	assert.Equal(t, EventCreateOrderResult, env.EventType)
	assert.Equal(t, DefaultSource, env.Source)
	assert.Equal(t, "req-42", env.TraceID)
	assert.Equal(t, event.SchemaVersion, env.SchemaVersion)
	assert.Equal(t, map[string]any{"orderId": result.Order.OrderID}, env.Payload["order"])

	require.Len(t, env.UpdatedObjects, 1)
	assert.Equal(t, "Order", env.UpdatedObjects[0].ObjectType)
	assert.Equal(t, map[string]any{"orderId": result.Order.OrderID}, env.UpdatedObjects[0].ObjectRef)
	assert.Equal(t, "created", env.UpdatedObjects[0].Object["currentState"])
}

func TestCreateOrderAddsMissingCustomer(t *testing.T) {
	repos := newRepos(t)
	svc := newService(t, repos, nil)
	ctx := context.Background()

	_, err := repos.Users.Save(ctx, &user.User{UserID: "u-2", Email: "keep@example.com"})
	require.NoError(t, err)

	createOrder(t, svc, "O1")
	_, err = svc.CreateOrder(ctx, CreateOrderCommand{OrderID: "O2", Customer: user.Ref{UserID: "u-2"}})
	require.NoError(t, err)

	created, found, err := repos.Users.GetByID(ctx, "u-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "u-1@example.local", created.Email)

	kept, _, err := repos.Users.GetByID(ctx, "u-2")
	require.NoError(t, err)
	assert.Equal(t, "keep@example.com", kept.Email)
}

func TestCreateOrderInvalid(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newService(t, newRepos(t), pub)

	_, err := svc.CreateOrder(context.Background(), CreateOrderCommand{TotalAmount: 1})
	require.ErrorIs(t, err, shared.ErrInvalidInput)
	assert.Empty(t, pub.envelopes())
}

func TestApproveAndShip(t *testing.T) {
	repos := newRepos(t)
	pub := &recordingPublisher{}
	svc := newService(t, repos, pub)
	ctx := context.Background()
	createOrder(t, svc, "O1")

	approved, err := svc.ApproveOrder(ctx, ApproveOrderCommand{
		OrderID:          "O1",
		ApprovedByUserID: "admin",
		Notes:            []string{"a", "b"},
		Reason:           "ok",
	})
	require.NoError(t, err)
	assert.Equal(t, order.StateApproved, approved.Order.CurrentState)
	assert.Equal(t, order.ApproveTransition{
		Object:           order.Ref{OrderID: "O1"},
		FromState:        order.StateCreated,
		ToState:          order.StateApproved,
		ApprovedByUserID: "admin",
		NoteCount:        2,
		Reason:           "ok",
	}, approved.Transition)

	shipped, err := svc.ShipOrder(ctx, ShipOrderCommand{
		OrderID:        "O1",
		Carrier:        "UPS",
		TrackingNumber: "1Z",
		PackageIDs:     []string{"p-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, order.StateShipped, shipped.Order.CurrentState)
	assert.Equal(t, []string{"p-1"}, shipped.Transition.PackageIDs)

	stored, _, err := repos.Orders.GetByID(ctx, "O1")
	require.NoError(t, err)
	assert.Equal(t, order.StateShipped, stored.CurrentState)

	envelopes := pub.envelopes()
	require.Len(t, envelopes, 3)
	assert.Equal(t, EventApproveOrderResult, envelopes[1].EventType)
	transitionPayload, ok := envelopes[1].Payload["transition"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"orderId": "O1"}, transitionPayload["object"])
	assert.Equal(t, "created", transitionPayload["fromState"])
	assert.EqualValues(t, 2, transitionPayload["noteCount"])
	assert.Equal(t, EventShipOrderResult, envelopes[2].EventType)
	assert.Equal(t, map[string]any{"orderId": "O1"}, envelopes[2].Payload["order"])
}

func TestTransitionFailuresPublishNothing(t *testing.T) {
	repos := newRepos(t)
	pub := &recordingPublisher{}
	svc := newService(t, repos, pub)
	ctx := context.Background()
	createOrder(t, svc, "O1")
	before := len(pub.envelopes())

	_, err := svc.ShipOrder(ctx, ShipOrderCommand{OrderID: "O1"})
	require.ErrorIs(t, err, shared.ErrInvalidTransition)

	_, err = svc.ApproveOrder(ctx, ApproveOrderCommand{OrderID: "missing"})
	require.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.ApproveOrder(ctx, ApproveOrderCommand{})
	require.ErrorIs(t, err, shared.ErrInvalidInput)

	assert.Len(t, pub.envelopes(), before)
}

type rejectApprovals struct{ transition.DefaultValidator }

func (rejectApprovals) ValidateApproveOrder(context.Context, *order.Order) transition.ValidationResult {
	return transition.Failed("credit check failed")
}

func TestValidatorRejection(t *testing.T) {
	repos := newRepos(t)
	engine := transition.NewEngine(repos, transition.WithValidator(rejectApprovals{}))
	svc, err := NewService(repos, nil, engine)
	require.NoError(t, err)
	createOrder(t, svc, "O1")

	_, err = svc.ApproveOrder(context.Background(), ApproveOrderCommand{OrderID: "O1"})
	require.ErrorIs(t, err, shared.ErrTransitionRejected)
	assert.Contains(t, err.Error(), "credit check failed")

	stored, _, err := repos.Orders.GetByID(context.Background(), "O1")
	require.NoError(t, err)
	assert.Equal(t, order.StateCreated, stored.CurrentState)
}

func TestPublishFailureKeepsWrite(t *testing.T) {
	repos := newRepos(t)
	pub := &recordingPublisher{}
	svc := newService(t, repos, pub)
	ctx := context.Background()
	createOrder(t, svc, "O1")

	pub.err = errors.New("broker down")
	result, err := svc.ApproveOrder(ctx, ApproveOrderCommand{OrderID: "O1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, pub.err)
	assert.Contains(t, err.Error(), "publish ApproveOrderResult")
	require.NotNil(t, result.Order)

	stored, _, err := repos.Orders.GetByID(ctx, "O1")
	require.NoError(t, err)
	assert.Equal(t, order.StateApproved, stored.CurrentState)
}

func TestAdditionalEventsShareOneBatch(t *testing.T) {
	repos := newRepos(t)
	pub := &recordingPublisher{}
	extra, err := event.NewEnvelope(event.Spec{EventType: "OrderAudit", Source: "audit"})
	require.NoError(t, err)

	handler := HandlerFunc[ApproveOrderCommand, ApproveOrderResult](
		func(ctx context.Context, ac *ActionContext, cmd ApproveOrderCommand) (ActionOutcome[ApproveOrderResult], error) {
			outcome, err := ApproveOrder(ctx, ac, cmd)
			if err != nil {
				return outcome, err
			}
			return Outcome(outcome.Output, extra), nil
		})
	svc := newService(t, repos, pub, WithApproveHandler(handler), WithSource("orders-test"))
	createOrder(t, svc, "O1")

	_, err = svc.ApproveOrder(context.Background(), ApproveOrderCommand{OrderID: "O1"})
	require.NoError(t, err)

	last := pub.batches[len(pub.batches)-1]
	require.Len(t, last, 2)
	assert.Equal(t, EventApproveOrderResult, last[0].EventType)
	assert.Equal(t, "orders-test", last[0].Source)
	assert.Equal(t, "OrderAudit", last[1].EventType)
}

func TestUnitOfWork(t *testing.T) {
	t.Run("publish after commit", func(t *testing.T) {
		uow := &countingUoW{}
		var publishedInside []bool
		pub := event.NewEventBus()
		require.NoError(t, pub.Subscribe(event.AllEvents, event.NewFuncHandler("probe", func(context.Context, event.Envelope) error {
			publishedInside = append(publishedInside, uow.inside)
			return nil
		})))
		svc := newService(t, newRepos(t), pub, WithUnitOfWork(uow))

		createOrder(t, svc, "O1")
		assert.Equal(t, 1, uow.calls)
		assert.Equal(t, []bool{false}, publishedInside)
	})

	t.Run("publish inside transaction", func(t *testing.T) {
		uow := &countingUoW{}
		var publishedInside []bool
		pub := event.NewEventBus()
		require.NoError(t, pub.Subscribe(event.AllEvents, event.NewFuncHandler("probe", func(context.Context, event.Envelope) error {
			publishedInside = append(publishedInside, uow.inside)
			return nil
		})))
		svc := newService(t, newRepos(t), pub, WithUnitOfWork(uow), WithTransactionalPublish())

		createOrder(t, svc, "O1")
		assert.Equal(t, 1, uow.calls)
		assert.Equal(t, []bool{true}, publishedInside)
	})
}

func TestQueries(t *testing.T) {
	svc := newService(t, newRepos(t), nil)
	ctx := context.Background()
	createOrder(t, svc, "O1")
	createOrder(t, svc, "O2")

	got, found, err := svc.GetOrder(ctx, "O2")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "O2", got.OrderID)

	_, found, err = svc.GetOrder(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, found)

	page, err := svc.ListOrders(ctx, 0, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "O1", page.Items[0].OrderID)

	page, err = svc.QueryOrders(ctx, &order.QueryFilter{
		OrderID: &shared.BaseFilter[string]{Eq: ptr("O2")},
	}, 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	_, err = svc.SaveOrder(ctx, nil)
	require.ErrorIs(t, err, shared.ErrInvalidInput)
}

func ptr[T any](v T) *T { return &v }
