package reservation

import (
	"time"

	"github.com/google/uuid"

	"github.com/ticketing/backend/internal/domain/shared"
	"github.com/ticketing/backend/internal/domain/shared/valueobject"
)

// HoldStatus represents the orchestrator-side lifecycle of a hold mirror
type HoldStatus string

const (
	HoldStatusActive    HoldStatus = "ACTIVE"
	HoldStatusExpired   HoldStatus = "EXPIRED"
	HoldStatusCommitted HoldStatus = "COMMITTED"
)

// IsValid returns true if the status is a known mirror status
func (s HoldStatus) IsValid() bool {
	switch s {
	case HoldStatusActive, HoldStatusExpired, HoldStatusCommitted:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s HoldStatus) String() string {
	return string(s)
}

// Hold is the orchestrator's mirror of an inventory-side hold plus
// customer metadata. The expiry loop only ever sees this mirror: it
// moves ACTIVE rows past their deadline to EXPIRED and emits
// hold.expired; the inventory service performs the actual release when
// the event arrives.
type Hold struct {
	shared.BaseAggregateRoot
	SessionID     uuid.UUID                `gorm:"type:uuid;not null;index"`
	TicketTypeID  uuid.UUID                `gorm:"type:uuid;not null"`
	Quantity      int64                    `gorm:"not null;check:quantity > 0"`
	CustomerEmail valueobject.EmailAddress `gorm:"type:varchar(255);not null"`
	Status        HoldStatus               `gorm:"type:varchar(20);not null;index:idx_reservation_status_expires"`
	ExpiresAt     time.Time                `gorm:"not null;index:idx_reservation_status_expires"`
}

// TableName returns the table name for GORM
func (Hold) TableName() string {
	return "reservation_holds"
}

// NewHold creates a new ACTIVE hold mirror. The id becomes the hold_id
// passed to the inventory service and to the order flow.
func NewHold(sessionID, ticketTypeID uuid.UUID, quantity valueobject.Quantity, customerEmail valueobject.EmailAddress, expiresAt time.Time) *Hold {
	return &Hold{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SessionID:         sessionID,
		TicketTypeID:      ticketTypeID,
		Quantity:          quantity.Value64(),
		CustomerEmail:     customerEmail,
		Status:            HoldStatusActive,
		ExpiresAt:         expiresAt,
	}
}

// IsActive returns true if the mirror has not expired yet
func (h *Hold) IsActive() bool {
	return h.Status == HoldStatusActive
}

// IsOverdue returns true if the deadline has passed at the given instant
func (h *Hold) IsOverdue(now time.Time) bool {
	return h.ExpiresAt.Before(now)
}

// MarkCommitted takes the mirror out of the expiry loop's view once
// the order behind it confirmed. No event: the inventory side learned
// about the commit through order.confirmed.
func (h *Hold) MarkCommitted() error {
	if !h.IsActive() {
		return shared.ErrInvalidStateTransition
	}
	h.Status = HoldStatusCommitted
	h.UpdatedAt = time.Now()
	h.IncrementVersion()
	return nil
}

// Expire transitions ACTIVE -> EXPIRED and emits hold.expired
func (h *Hold) Expire() error {
	if !h.IsActive() {
		return shared.ErrInvalidStateTransition
	}
	h.Status = HoldStatusExpired
	h.UpdatedAt = time.Now()
	h.IncrementVersion()
	h.AddDomainEvent(NewHoldExpiredEvent(h))
	return nil
}
