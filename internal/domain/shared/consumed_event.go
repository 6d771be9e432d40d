package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ConsumedEvent records an event id a consumer has already processed.
// The row is inserted in the same database transaction as the
// handler's effect, which upgrades at-least-once delivery to
// effectively-once handling: a redelivery finds the row and becomes a
// silent ack.
type ConsumedEvent struct {
	EventID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventType  string    `gorm:"type:varchar(100);not null"`
	ConsumedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ConsumedEvent) TableName() string {
	return "consumed_events"
}

// NewConsumedEvent creates a consumed-event record
func NewConsumedEvent(eventID uuid.UUID, eventType string) *ConsumedEvent {
	return &ConsumedEvent{
		EventID:    eventID,
		EventType:  eventType,
		ConsumedAt: time.Now(),
	}
}

// ConsumedEventRepository defines the interface for dedup persistence
type ConsumedEventRepository interface {
	// InsertIfAbsent inserts the record unless the event id is already
	// present. Returns true when the row was newly inserted, false when
	// the event was seen before.
	InsertIfAbsent(ctx context.Context, eventID uuid.UUID, eventType string) (bool, error)

	// DeleteOlderThan removes dedup rows older than the given time
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}
