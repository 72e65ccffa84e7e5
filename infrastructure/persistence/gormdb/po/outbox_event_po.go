package po

import (
	"encoding/json"
	"time"

	"ordercore/domain/event"
)

// OutboxEventPO Outbox event persistence object
// Implements transactional outbox pattern for reliable event publishing
type OutboxEventPO struct {
	ID         string    `gorm:"column:id;primaryKey;size:64"` // envelope event_id
	TraceID    string    `gorm:"column:trace_id;size:64;index"`
	EventType  string    `gorm:"column:event_type;size:100;index;not null"`
	Envelope   string    `gorm:"column:envelope;type:text;not null"` // JSON encoded event.Envelope
	Status     string    `gorm:"column:status;size:20;index;default:PENDING;not null"`
	RetryCount int       `gorm:"column:retry_count;default:0;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName Specify table name
func (OutboxEventPO) TableName() string {
	return "outbox_events"
}

// EventStatus Outbox event status enum
type EventStatus string

const (
	EventStatusPending    EventStatus = "PENDING"
	EventStatusProcessing EventStatus = "PROCESSING"
	EventStatusPublished  EventStatus = "PUBLISHED"
	EventStatusFailed     EventStatus = "FAILED"
)

// FromEnvelope Convert an envelope to an outbox row
func FromEnvelope(e event.Envelope) (*OutboxEventPO, error) {
	if err := event.Validate(e); err != nil {
		return nil, err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &OutboxEventPO{
		ID:         e.EventID,
		TraceID:    e.TraceID,
		EventType:  e.EventType,
		Envelope:   string(data),
		Status:     string(EventStatusPending),
		RetryCount: 0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// ToEnvelope Decode the stored envelope
func (p *OutboxEventPO) ToEnvelope() (event.Envelope, error) {
	var e event.Envelope
	if err := json.Unmarshal([]byte(p.Envelope), &e); err != nil {
		return event.Envelope{}, err
	}
	return e, nil
}
