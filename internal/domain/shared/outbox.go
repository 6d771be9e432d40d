package shared

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OutboxEntry represents an event stored in the outbox for reliable delivery.
// Entries are written in the same database transaction as the state change
// they describe; a relay publishes unpublished entries to the broker and
// flips the published flag. Delivery is at-least-once by construction.
type OutboxEntry struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EventID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	EventType     string     `gorm:"type:varchar(100);not null"`
	AggregateID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	AggregateType string     `gorm:"type:varchar(100);not null"`
	OccurredAt    time.Time  `gorm:"not null"`
	Payload       []byte     `gorm:"type:jsonb;not null"`
	Published     bool       `gorm:"not null;default:false;index:idx_outbox_published_created"`
	PublishedAt   *time.Time `gorm:""`
	RetryCount    int        `gorm:"not null;default:0"`
	LastError     string     `gorm:"type:text"`
	CreatedAt     time.Time  `gorm:"not null;index:idx_outbox_published_created"`
	UpdatedAt     time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OutboxEntry) TableName() string {
	return "outbox_entries"
}

// NewOutboxEntry creates a new unpublished outbox entry for a domain event
func NewOutboxEntry(event DomainEvent, payload []byte) *OutboxEntry {
	now := time.Now()
	return &OutboxEntry{
		ID:            uuid.New(),
		EventID:       event.EventID(),
		EventType:     event.EventType(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		OccurredAt:    event.OccurredAt(),
		Payload:       payload,
		Published:     false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// MarkPublished records a successful publish
func (e *OutboxEntry) MarkPublished() {
	now := time.Now()
	e.Published = true
	e.PublishedAt = &now
	e.UpdatedAt = now
}

// MarkFailed records a failed publish attempt. The entry stays unpublished
// and will be picked up again on a later poll.
func (e *OutboxEntry) MarkFailed(errMsg string) {
	e.RetryCount++
	e.LastError = errMsg
	e.UpdatedAt = time.Now()
}

// OutboxEntriesFromEvents serializes domain events into outbox entries.
// The payload carries only the event's typed fields; the envelope
// metadata is rebuilt from the entry's columns at publish time.
func OutboxEntriesFromEvents(events ...DomainEvent) ([]*OutboxEntry, error) {
	entries := make([]*OutboxEntry, 0, len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return nil, fmt.Errorf("serialize event %s: %w", event.EventType(), err)
		}
		entries = append(entries, NewOutboxEntry(event, payload))
	}
	return entries, nil
}

// OutboxRepository defines the interface for outbox persistence
type OutboxRepository interface {
	// Save persists one or more outbox entries
	Save(ctx context.Context, entries ...*OutboxEntry) error
	// FindUnpublished retrieves unpublished entries in creation order,
	// up to the specified limit
	FindUnpublished(ctx context.Context, limit int) ([]*OutboxEntry, error)
	// FindByID retrieves a single outbox entry by ID
	FindByID(ctx context.Context, id uuid.UUID) (*OutboxEntry, error)
	// Update updates an existing outbox entry
	Update(ctx context.Context, entry *OutboxEntry) error
	// DeletePublishedOlderThan deletes published entries older than the
	// specified time and returns the number removed
	DeletePublishedOlderThan(ctx context.Context, before time.Time) (int64, error)
	// CountUnpublished returns the number of entries awaiting publish
	CountUnpublished(ctx context.Context) (int64, error)
}
