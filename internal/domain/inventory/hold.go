package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/ticketing/backend/internal/domain/shared"
	"github.com/ticketing/backend/internal/domain/shared/valueobject"
)

// HoldStatus represents the lifecycle state of a hold
type HoldStatus string

const (
	HoldStatusHeld      HoldStatus = "HELD"
	HoldStatusReleased  HoldStatus = "RELEASED"
	HoldStatusCommitted HoldStatus = "COMMITTED"
)

// IsValid returns true if the status is a known hold status
func (s HoldStatus) IsValid() bool {
	switch s {
	case HoldStatusHeld, HoldStatusReleased, HoldStatusCommitted:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s HoldStatus) String() string {
	return string(s)
}

// IsTerminal returns true for RELEASED and COMMITTED
func (s HoldStatus) IsTerminal() bool {
	return s == HoldStatusReleased || s == HoldStatusCommitted
}

// Hold is a time-bounded reservation of seat capacity. Its id is
// supplied by the orchestrator, which makes the hold operation
// naturally idempotent: a retry finds the existing row.
type Hold struct {
	shared.BaseEntity
	InventoryItemID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Quantity        int64      `gorm:"not null;check:quantity > 0"`
	Status          HoldStatus `gorm:"type:varchar(20);not null;index:idx_holds_status_expires"`
	ExpiresAt       time.Time  `gorm:"not null;index:idx_holds_status_expires"`
}

// TableName returns the table name for GORM
func (Hold) TableName() string {
	return "holds"
}

// NewHold creates a new hold in HELD
func NewHold(holdID, inventoryItemID uuid.UUID, quantity valueobject.Quantity, expiresAt time.Time) *Hold {
	now := time.Now()
	return &Hold{
		BaseEntity: shared.BaseEntity{
			ID:        holdID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		InventoryItemID: inventoryItemID,
		Quantity:        quantity.Value64(),
		Status:          HoldStatusHeld,
		ExpiresAt:       expiresAt,
	}
}

// IsHeld returns true if the hold is live
func (h *Hold) IsHeld() bool {
	return h.Status == HoldStatusHeld
}

// IsReleased returns true if the hold was released
func (h *Hold) IsReleased() bool {
	return h.Status == HoldStatusReleased
}

// IsCommitted returns true if the hold was committed
func (h *Hold) IsCommitted() bool {
	return h.Status == HoldStatusCommitted
}

// CanRelease returns true if the hold may transition to RELEASED
func (h *Hold) CanRelease() bool {
	return h.Status == HoldStatusHeld
}

// CanCommit returns true if the hold may transition to COMMITTED
func (h *Hold) CanCommit() bool {
	return h.Status == HoldStatusHeld
}

// Matches reports whether the hold carries the given attributes.
// Used to recognize a retried hold request as the same logical hold.
func (h *Hold) Matches(inventoryItemID uuid.UUID, quantity valueobject.Quantity) bool {
	return h.InventoryItemID == inventoryItemID && h.Quantity == quantity.Value64()
}

// Release transitions HELD -> RELEASED
func (h *Hold) Release() error {
	if !h.CanRelease() {
		return shared.ErrInvalidStateTransition
	}
	h.Status = HoldStatusReleased
	h.UpdatedAt = time.Now()
	return nil
}

// Commit transitions HELD -> COMMITTED
func (h *Hold) Commit() error {
	if !h.CanCommit() {
		return shared.ErrInvalidStateTransition
	}
	h.Status = HoldStatusCommitted
	h.UpdatedAt = time.Now()
	return nil
}
