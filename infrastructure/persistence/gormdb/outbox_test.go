package gormdb

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ordercore/domain/event"
	"ordercore/infrastructure/persistence/gormdb/po"
	"ordercore/infrastructure/persistence/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu        sync.Mutex
	envelopes []event.Envelope
	fail      error
}

func (p *recordingPublisher) Publish(_ context.Context, e event.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.envelopes = append(p.envelopes, e)
	return nil
}

func (p *recordingPublisher) PublishBatch(ctx context.Context, es []event.Envelope) error {
	for _, e := range es {
		if err := p.Publish(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func newEnvelope(t *testing.T, eventType string) event.Envelope {
	t.Helper()
	e, err := event.NewEnvelope(event.Spec{
		EventType: eventType,
		Source:    "ordercore",
		TraceID:   "req-1",
		Payload:   map[string]any{"order": map[string]any{"orderId": "O1"}},
	})
	require.NoError(t, err)
	return e
}

func statusOf(t *testing.T, repo *OutboxRepository, id string) po.OutboxEventPO {
	t.Helper()
	var row po.OutboxEventPO
	require.NoError(t, repo.db.Where("id = ?", id).Take(&row).Error)
	return row
}

func TestOutboxPublisherJoinsUnitOfWork(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderRepository(db)
	publisher := NewOutboxPublisher(db)
	uow := NewUnitOfWork(db)
	ctx := context.Background()

	err := uow.Execute(ctx, func(ctx context.Context) error {
		if _, err := orders.Save(ctx, repotest.Orders()[0]); err != nil {
			return err
		}
		return publisher.Publish(ctx, newEnvelope(t, "CreateOrderResult"))
	})
	require.NoError(t, err)

	pending, err := publisher.repository.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "CreateOrderResult", pending[0].EventType)
	assert.Equal(t, "req-1", pending[0].TraceID)

	boom := errors.New("boom")
	err = uow.Execute(ctx, func(ctx context.Context) error {
		if err := publisher.Publish(ctx, newEnvelope(t, "ApproveOrderResult")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	pending, err = publisher.repository.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestOutboxPublisherRejectsInvalidEnvelope(t *testing.T) {
	publisher := NewOutboxPublisher(newTestDB(t))
	err := publisher.Publish(context.Background(), event.Envelope{})
	assert.Error(t, err)
}

func TestOutboxWorkerDeliversPendingEvents(t *testing.T) {
	db := newTestDB(t)
	publisher := NewOutboxPublisher(db)
	ctx := context.Background()

	first := newEnvelope(t, "CreateOrderResult")
	second := newEnvelope(t, "ApproveOrderResult")
	require.NoError(t, publisher.PublishBatch(ctx, []event.Envelope{first, second}))

	downstream := &recordingPublisher{}
	worker, err := NewOutboxWorker(publisher.repository, downstream, time.Second, 10, 3)
	require.NoError(t, err)

	n, err := worker.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, downstream.envelopes, 2)
	delivered := map[string]event.Envelope{}
	for _, e := range downstream.envelopes {
		delivered[e.EventID] = e
	}
	assert.Equal(t, first.EventType, delivered[first.EventID].EventType)
	assert.Equal(t, first.Payload, delivered[first.EventID].Payload)
	assert.Equal(t, string(po.EventStatusPublished), statusOf(t, publisher.repository, first.EventID).Status)

	n, err = worker.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOutboxWorkerMarksFailuresAfterMaxRetries(t *testing.T) {
	db := newTestDB(t)
	publisher := NewOutboxPublisher(db)
	ctx := context.Background()

	e := newEnvelope(t, "ShipOrderResult")
	require.NoError(t, publisher.Publish(ctx, e))

	downstream := &recordingPublisher{fail: errors.New("broker down")}
	worker, err := NewOutboxWorker(publisher.repository, downstream, time.Second, 10, 2)
	require.NoError(t, err)

	_, err = worker.ProcessBatch(ctx)
	require.NoError(t, err)
	row := statusOf(t, publisher.repository, e.EventID)
	assert.Equal(t, string(po.EventStatusPending), row.Status)
	assert.Equal(t, 1, row.RetryCount)

	_, err = worker.ProcessBatch(ctx)
	require.NoError(t, err)
	row = statusOf(t, publisher.repository, e.EventID)
	assert.Equal(t, string(po.EventStatusFailed), row.Status)
	assert.Equal(t, 2, row.RetryCount)
}

func TestNewOutboxWorkerValidatesArguments(t *testing.T) {
	repo := NewOutboxRepository(newTestDB(t))
	_, err := NewOutboxWorker(nil, &recordingPublisher{}, time.Second, 1, 1)
	assert.Error(t, err)
	_, err = NewOutboxWorker(repo, nil, time.Second, 1, 1)
	assert.Error(t, err)
	_, err = NewOutboxWorker(repo, &recordingPublisher{}, 0, 1, 1)
	assert.Error(t, err)
	_, err = NewOutboxWorker(repo, &recordingPublisher{}, time.Second, 0, 1)
	assert.Error(t, err)
	_, err = NewOutboxWorker(repo, &recordingPublisher{}, time.Second, 1, 0)
	assert.Error(t, err)
}
