package gormdb

import (
	"context"
	"fmt"
	"time"

	"ordercore/domain/event"
	"ordercore/infrastructure/persistence/retry"
	"ordercore/pkg/logger"

	"go.uber.org/zap"
)

// OutboxWorker polls PENDING outbox rows and hands them to a downstream publisher
type OutboxWorker struct {
	repository   *OutboxRepository
	publisher    event.Publisher
	pollInterval time.Duration
	batchSize    int
	maxRetries   int
	retryConfig  retry.Config
}

func NewOutboxWorker(
	repository *OutboxRepository,
	publisher event.Publisher,
	pollInterval time.Duration,
	batchSize int,
	maxRetries int,
) (*OutboxWorker, error) {
	if repository == nil {
		return nil, fmt.Errorf("outbox repository is required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher is required")
	}
	if pollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive")
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive")
	}
	if maxRetries <= 0 {
		return nil, fmt.Errorf("max retries must be positive")
	}

	return &OutboxWorker{
		repository:   repository,
		publisher:    publisher,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		maxRetries:   maxRetries,
		retryConfig:  retry.DefaultConfig,
	}, nil
}

// SetRetryConfig retry policy for the status updates around each delivery
func (w *OutboxWorker) SetRetryConfig(config retry.Config) {
	w.retryConfig = config
}

// Run polls until ctx is cancelled
func (w *OutboxWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.ProcessBatch(ctx); err != nil {
				logger.Error("Outbox batch processing failed", zap.Error(err))
			}
		}
	}
}

// ProcessBatch delivers at most batchSize rows and returns how many were published
func (w *OutboxWorker) ProcessBatch(ctx context.Context) (int, error) {
	rows, err := w.repository.GetPendingEvents(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, row := range rows {
		if err := w.repository.MarkEventProcessing(ctx, row.ID); err != nil {
			logger.Warn("Skip outbox event due to lock contention",
				zap.String("event_id", row.ID),
				zap.Error(err),
			)
			continue
		}

		envelope, err := row.ToEnvelope()
		if err == nil {
			err = w.publisher.Publish(ctx, envelope)
		}
		if err != nil {
			logger.Warn("Outbox event delivery failed",
				zap.String("event_id", row.ID),
				zap.String("event_type", row.EventType),
				zap.Int("retry_count", row.RetryCount),
				zap.Error(err),
			)
			failErr := retry.ExecuteWithRetry(ctx, w.retryConfig, func(ctx context.Context) error {
				return w.repository.MarkEventFailed(ctx, row.ID, w.maxRetries)
			})
			if failErr != nil {
				logger.Error("Failed to mark outbox event as failed",
					zap.String("event_id", row.ID),
					zap.Error(failErr),
				)
			}
			continue
		}

		err = retry.ExecuteWithRetry(ctx, w.retryConfig, func(ctx context.Context) error {
			return w.repository.MarkEventPublished(ctx, row.ID)
		})
		if err != nil {
			logger.Error("Failed to mark outbox event as published",
				zap.String("event_id", row.ID),
				zap.Error(err),
			)
			continue
		}
		published++
	}

	return published, nil
}
