package event

import (
	"context"

	"ordercore/pkg/logger"

	"go.uber.org/zap"
)

// LoggingPublisher writes every envelope to the process log and never fails
type LoggingPublisher struct{}

var _ Publisher = LoggingPublisher{}

func (LoggingPublisher) Publish(ctx context.Context, e Envelope) error {
	logger.FromContext(ctx).Info("Event published",
		zap.String("event_id", e.EventID),
		zap.String("trace_id", e.TraceID),
		zap.String("event_type", e.EventType),
		zap.String("occurred_at", e.OccurredAt),
		zap.Int("updated_objects", len(e.UpdatedObjects)),
		zap.Any("payload", e.Payload),
	)
	return nil
}

func (p LoggingPublisher) PublishBatch(ctx context.Context, envelopes []Envelope) error {
	for _, e := range envelopes {
		_ = p.Publish(ctx, e)
	}
	return nil
}
