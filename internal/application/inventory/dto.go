package inventory

import (
	"time"

	"github.com/google/uuid"
)

// HoldCommand carries the validated inputs for the hold operation.
// The hold id is assigned by the caller (the orchestrator) so retries
// collapse onto one hold.
type HoldCommand struct {
	HoldID       uuid.UUID
	SessionID    uuid.UUID
	TicketTypeID uuid.UUID
	Quantity     int64
	ExpiresAt    time.Time
}

// HoldResult is the outcome of a successful (or idempotent) hold
type HoldResult struct {
	HoldID            uuid.UUID `json:"hold_id"`
	AvailableQuantity int64     `json:"available_quantity"`
}

// AvailabilityResult is a point-in-time availability snapshot.
// The value is advisory: it may be stale by the time the caller acts.
type AvailabilityResult struct {
	SessionID         uuid.UUID `json:"session_id"`
	TicketTypeID      uuid.UUID `json:"ticket_type_id"`
	TotalQuantity     int64     `json:"total_quantity"`
	AvailableQuantity int64     `json:"available_quantity"`
	HeldQuantity      int64     `json:"held_quantity"`
}
