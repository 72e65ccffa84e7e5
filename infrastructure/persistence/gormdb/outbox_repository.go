package gormdb

import (
	"context"
	"fmt"
	"time"

	"ordercore/domain/event"
	"ordercore/infrastructure/persistence"
	"ordercore/infrastructure/persistence/gormdb/po"

	"gorm.io/gorm"
)

// OutboxRepository stores envelopes in the outbox table.
// Rows written inside a UoW transaction commit or roll back with the state write.
type OutboxRepository struct {
	db *gorm.DB
}

// NewOutboxRepository Create outbox repository
func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// getDB returns the transaction from context if available, otherwise the default db
func (r *OutboxRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

// SaveEnvelopes inserts one PENDING row per envelope in a single statement
func (r *OutboxRepository) SaveEnvelopes(ctx context.Context, envelopes []event.Envelope) error {
	if len(envelopes) == 0 {
		return nil
	}
	rows := make([]*po.OutboxEventPO, 0, len(envelopes))
	for _, e := range envelopes {
		row, err := po.FromEnvelope(e)
		if err != nil {
			return fmt.Errorf("invalid envelope %s: %w", e.EventID, err)
		}
		rows = append(rows, row)
	}
	if err := r.getDB(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to save events to outbox: %w", err)
	}
	return nil
}

// GetPendingEvents oldest PENDING rows first
func (r *OutboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*po.OutboxEventPO, error) {
	var events []*po.OutboxEventPO
	err := r.getDB(ctx).
		Where("status = ?", string(po.EventStatusPending)).
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending events: %w", err)
	}
	return events, nil
}

// MarkEventProcessing claims a PENDING row; fails when another worker already claimed it
func (r *OutboxRepository) MarkEventProcessing(ctx context.Context, eventID string) error {
	result := r.getDB(ctx).Model(&po.OutboxEventPO{}).
		Where("id = ? AND status = ?", eventID, string(po.EventStatusPending)).
		Updates(map[string]any{
			"status":     string(po.EventStatusProcessing),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event not found or already being processed: %s", eventID)
	}
	return nil
}

// MarkEventPublished Mark event as successfully published
func (r *OutboxRepository) MarkEventPublished(ctx context.Context, eventID string) error {
	result := r.getDB(ctx).Model(&po.OutboxEventPO{}).
		Where("id = ?", eventID).
		Updates(map[string]any{
			"status":     string(po.EventStatusPublished),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event not found: %s", eventID)
	}
	return nil
}

// MarkEventFailed increments the retry count; the row returns to PENDING until maxRetries is reached
func (r *OutboxRepository) MarkEventFailed(ctx context.Context, eventID string, maxRetries int) error {
	db := r.getDB(ctx)

	var row po.OutboxEventPO
	if err := db.Where("id = ?", eventID).Take(&row).Error; err != nil {
		return fmt.Errorf("failed to find event: %w", err)
	}

	retryCount := row.RetryCount + 1
	status := string(po.EventStatusFailed)
	if retryCount < maxRetries {
		status = string(po.EventStatusPending)
	}

	return db.Model(&po.OutboxEventPO{}).
		Where("id = ?", eventID).
		Updates(map[string]any{
			"status":      status,
			"retry_count": retryCount,
			"updated_at":  time.Now(),
		}).Error
}

// OutboxPublisher is an event.Publisher that writes envelopes to the outbox table.
// Inside a UoW the rows join the caller's transaction; OutboxWorker delivers them later.
type OutboxPublisher struct {
	repository *OutboxRepository
}

var _ event.Publisher = (*OutboxPublisher)(nil)

func NewOutboxPublisher(db *gorm.DB) *OutboxPublisher {
	return &OutboxPublisher{repository: NewOutboxRepository(db)}
}

func (p *OutboxPublisher) Publish(ctx context.Context, envelope event.Envelope) error {
	return p.repository.SaveEnvelopes(ctx, []event.Envelope{envelope})
}

func (p *OutboxPublisher) PublishBatch(ctx context.Context, envelopes []event.Envelope) error {
	return p.repository.SaveEnvelopes(ctx, envelopes)
}
