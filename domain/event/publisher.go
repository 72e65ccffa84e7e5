package event

import "context"

// Publisher delivery contract for envelopes.
// Callers publish only after the underlying state write has succeeded.
// A returned error means the hand-off failed; success promises nothing about delivery.
type Publisher interface {
	Publish(ctx context.Context, envelope Envelope) error
	PublishBatch(ctx context.Context, envelopes []Envelope) error
}

// NoOpPublisher drops every envelope; a valid publisher for callers that need no delivery
type NoOpPublisher struct{}

func (NoOpPublisher) Publish(context.Context, Envelope) error { return nil }

func (NoOpPublisher) PublishBatch(context.Context, []Envelope) error { return nil }

var _ Publisher = NoOpPublisher{}
