package order

import (
	"context"

	"ordercore/domain/event"
	"ordercore/infrastructure/persistence"
)

// Event types emitted by the action service
const (
	EventCreateOrderResult  = "CreateOrderResult"
	EventApproveOrderResult = "ApproveOrderResult"
	EventShipOrderResult    = "ShipOrderResult"
)

// DefaultSource envelope source when none is configured
const DefaultSource = "ordercore"

// orderBinding replaces the full order under "order" with its reference
var orderBinding = event.RefBinding{
	ObjectType:  "Order",
	Path:        []string{"order"},
	PrimaryKeys: []string{"orderId"},
}

// toEnvelopes result envelope first, then the handler's additional events
func toEnvelopes[T any](ctx context.Context, source, eventType string, outcome ActionOutcome[T]) ([]event.Envelope, error) {
	envelope, err := event.NewEnvelope(event.Spec{
		EventType: eventType,
		Source:    source,
		TraceID:   persistence.RequestIDFromContext(ctx),
		Payload:   outcome.Output,
		Bindings:  []event.RefBinding{orderBinding},
	})
	if err != nil {
		return nil, err
	}

	envelopes := make([]event.Envelope, 0, 1+len(outcome.AdditionalEvents))
	envelopes = append(envelopes, envelope)
	return append(envelopes, outcome.AdditionalEvents...), nil
}
