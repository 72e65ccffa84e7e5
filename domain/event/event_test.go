package event

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type approveResult struct {
	Order      map[string]any `json:"order"`
	Transition map[string]any `json:"transition"`
}

func TestNewEnvelopeBindsRefs(t *testing.T) {
	payload := approveResult{
		Order:      map[string]any{"orderId": "O1", "currentState": "approved", "totalAmount": 12.5},
		Transition: map[string]any{"fromState": "created", "toState": "approved"},
	}

	env, err := NewEnvelope(Spec{
		EventType: "ApproveOrderResult",
		Source:    "ordercore",
		TraceID:   "req-1",
		Payload:   payload,
		Bindings:  []RefBinding{{ObjectType: "Order", Path: []string{"order"}, PrimaryKeys: []string{"orderId"}}},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, "req-1", env.TraceID)
	assert.Equal(t, SchemaVersion, env.SchemaVersion)
	assert.Equal(t, map[string]any{"orderId": "O1"}, env.Payload["order"])

	require.Len(t, env.UpdatedObjects, 1)
	obj := env.UpdatedObjects[0]
	assert.Equal(t, "Order", obj.ObjectType)
	assert.Equal(t, map[string]any{"orderId": "O1"}, obj.ObjectRef)
	assert.Equal(t, "approved", obj.Object["currentState"])

	data, err := json.Marshal(env)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"updated_objects"`)
	assert.Contains(t, string(data), `"schema_version":"1.0.0"`)
	assert.NotContains(t, string(data), `"attributes"`)
}

func TestNewEnvelopeWithoutTraceUsesEventID(t *testing.T) {
	env, err := NewEnvelope(Spec{EventType: "X", Payload: nil})
	require.NoError(t, err)
	assert.Equal(t, env.EventID, env.TraceID)
	assert.Empty(t, env.UpdatedObjects)
	assert.NotNil(t, env.Payload)
}

func TestBindRefsSkipsMissingPaths(t *testing.T) {
	payload := map[string]any{"order": "not-an-object"}
	updated := BindRefs(payload, []RefBinding{
		{ObjectType: "Order", Path: []string{"order"}, PrimaryKeys: []string{"orderId"}},
		{ObjectType: "Order", Path: []string{"missing", "order"}, PrimaryKeys: []string{"orderId"}},
		{ObjectType: "Order"},
	})
	assert.Empty(t, updated)
	assert.Equal(t, "not-an-object", payload["order"])
}

func TestNewEventIDUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := NewEventID()
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestNowISOIsMonotonic(t *testing.T) {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ticks := []time.Time{base, base.Add(-time.Hour), base.Add(time.Millisecond)}

	clock.mu.Lock()
	clock.last = time.Time{}
	i := 0
	clock.now = func() time.Time {
		t := ticks[i]
		i++
		return t
	}
	clock.mu.Unlock()
	defer func() {
		clock.mu.Lock()
		clock.now = nil
		clock.last = time.Time{}
		clock.mu.Unlock()
	}()

	first := NowISO()
	second := NowISO()
	third := NowISO()

	assert.Equal(t, "2026-01-02T03:04:05.000Z", first)
	assert.Equal(t, first, second)
	assert.Equal(t, "2026-01-02T03:04:05.001Z", third)
}

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	var mu sync.Mutex
	var got []string
	record := func(name string) Handler {
		return NewFuncHandler(name, func(_ context.Context, e Envelope) error {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, name+":"+e.EventType)
			return nil
		})
	}

	require.NoError(t, bus.Subscribe("ApproveOrderResult", record("typed")))
	require.NoError(t, bus.Subscribe(AllEvents, record("all")))
	assert.Error(t, bus.Subscribe("ApproveOrderResult", record("typed")))

	approve, err := NewEnvelope(Spec{EventType: "ApproveOrderResult"})
	require.NoError(t, err)
	ship, err := NewEnvelope(Spec{EventType: "ShipOrderResult"})
	require.NoError(t, err)

	require.NoError(t, bus.PublishBatch(context.Background(), []Envelope{approve, ship}))
	assert.Equal(t, []string{"typed:ApproveOrderResult", "all:ApproveOrderResult", "all:ShipOrderResult"}, got)
	assert.Len(t, bus.History(), 2)

	assert.Error(t, bus.Publish(context.Background(), Envelope{}))
}

func TestEventBusJoinsHandlerErrors(t *testing.T) {
	bus := NewEventBus()
	boom := errors.New("boom")
	require.NoError(t, bus.Subscribe(AllEvents, NewFuncHandler("failing", func(context.Context, Envelope) error { return boom })))

	env, err := NewEnvelope(Spec{EventType: "CreateOrderResult"})
	require.NoError(t, err)

	err = bus.Publish(context.Background(), env)
	assert.ErrorIs(t, err, boom)

	history := bus.History()
	require.Len(t, history, 1)
	assert.False(t, history[0].Success)
}

func TestNoOpPublisher(t *testing.T) {
	var p Publisher = NoOpPublisher{}
	assert.NoError(t, p.Publish(context.Background(), Envelope{}))
	assert.NoError(t, p.PublishBatch(context.Background(), nil))
}
