package reservation

import (
	"time"

	"github.com/google/uuid"

	"github.com/ticketing/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeReservationHold = "ReservationHold"

// Event type constants
const (
	EventTypeHoldExpired = "hold.expired"
)

// HoldExpiredEvent is raised when the expiry loop retires an overdue
// hold mirror. The inventory consumer reacts by releasing the hold.
type HoldExpiredEvent struct {
	shared.BaseDomainEvent
	HoldID       uuid.UUID `json:"hold_id"`
	SessionID    uuid.UUID `json:"session_id"`
	TicketTypeID uuid.UUID `json:"ticket_type_id"`
	Quantity     int64     `json:"quantity"`
	ExpiredAt    time.Time `json:"expired_at"`
}

// NewHoldExpiredEvent creates a new HoldExpiredEvent
func NewHoldExpiredEvent(h *Hold) *HoldExpiredEvent {
	return &HoldExpiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeHoldExpired, AggregateTypeReservationHold, h.ID),
		HoldID:          h.ID,
		SessionID:       h.SessionID,
		TicketTypeID:    h.TicketTypeID,
		Quantity:        h.Quantity,
		ExpiredAt:       time.Now(),
	}
}

// EventType returns the event type name
func (e *HoldExpiredEvent) EventType() string {
	return EventTypeHoldExpired
}
