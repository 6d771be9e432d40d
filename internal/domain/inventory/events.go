package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/ticketing/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeInventoryItem = "InventoryItem"

// Event type constants. These double as broker routing keys on the
// ticketing.events topic exchange.
const (
	EventTypeHoldCreated = "hold.created"
)

// HoldCreatedEvent is raised when capacity is reserved by a new hold
type HoldCreatedEvent struct {
	shared.BaseDomainEvent
	HoldID       uuid.UUID `json:"hold_id"`
	SessionID    uuid.UUID `json:"session_id"`
	TicketTypeID uuid.UUID `json:"ticket_type_id"`
	Quantity     int64     `json:"quantity"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// NewHoldCreatedEvent creates a new HoldCreatedEvent
func NewHoldCreatedEvent(item *InventoryItem, hold *Hold) *HoldCreatedEvent {
	return &HoldCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeHoldCreated, AggregateTypeInventoryItem, item.ID),
		HoldID:          hold.ID,
		SessionID:       item.SessionID,
		TicketTypeID:    item.TicketTypeID,
		Quantity:        hold.Quantity,
		ExpiresAt:       hold.ExpiresAt,
	}
}

// EventType returns the event type name
func (e *HoldCreatedEvent) EventType() string {
	return EventTypeHoldCreated
}
