package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/ticketing/backend/internal/domain/shared"
	"github.com/ticketing/backend/internal/domain/shared/valueobject"
)

// InventoryItem is the aggregate root for seat capacity of one
// (session, ticket type) pair. TotalQuantity is fixed at creation;
// AvailableQuantity moves as holds are placed and released. Committed
// holds keep their capacity out of the available pool, so at all times
//
//	available + Σ qty(HELD) + Σ qty(COMMITTED) = total
//
// All writers serialize on a row-level exclusive lock taken by the
// repository; the aggregate itself assumes it is the only writer.
type InventoryItem struct {
	shared.BaseAggregateRoot
	SessionID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_session_ticket"`
	TicketTypeID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_session_ticket"`
	TotalQuantity     int64     `gorm:"not null"`
	AvailableQuantity int64     `gorm:"not null;check:available_quantity >= 0"`
}

// TableName returns the table name for GORM
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// NewInventoryItem creates a new inventory item with the full capacity available
func NewInventoryItem(sessionID, ticketTypeID uuid.UUID, total valueobject.Quantity) *InventoryItem {
	return &InventoryItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SessionID:         sessionID,
		TicketTypeID:      ticketTypeID,
		TotalQuantity:     total.Value64(),
		AvailableQuantity: total.Value64(),
	}
}

// HeldQuantity returns the capacity currently out of the available pool,
// covering both live and committed holds
func (i *InventoryItem) HeldQuantity() int64 {
	return i.TotalQuantity - i.AvailableQuantity
}

// CanHold returns true if the available pool covers the requested quantity
func (i *InventoryItem) CanHold(quantity valueobject.Quantity) bool {
	return i.AvailableQuantity >= quantity.Value64()
}

// PlaceHold reserves quantity out of the available pool and returns the
// new hold. The hold id is assigned by the caller so that retries of the
// same logical hold collapse onto one row. Emits hold.created.
func (i *InventoryItem) PlaceHold(holdID uuid.UUID, quantity valueobject.Quantity, expiresAt time.Time) (*Hold, error) {
	if !i.CanHold(quantity) {
		return nil, shared.ErrInsufficientInventory
	}

	i.AvailableQuantity -= quantity.Value64()
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	hold := NewHold(holdID, i.ID, quantity, expiresAt)
	i.AddDomainEvent(NewHoldCreatedEvent(i, hold))
	return hold, nil
}

// ReleaseHold returns a live hold's quantity to the available pool and
// marks it RELEASED. The caller is responsible for terminal-state
// idempotence; this method only accepts holds in HELD.
func (i *InventoryItem) ReleaseHold(hold *Hold) error {
	if err := hold.Release(); err != nil {
		return err
	}

	i.AvailableQuantity += hold.Quantity
	if i.AvailableQuantity > i.TotalQuantity {
		// A release must never push availability past capacity
		i.AvailableQuantity -= hold.Quantity
		return shared.ErrConcurrencyConflict
	}
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// CommitHold reclassifies a live hold as a permanent allocation.
// No quantity changes: the capacity stays out of the available pool.
func (i *InventoryItem) CommitHold(hold *Hold) error {
	if err := hold.Commit(); err != nil {
		return err
	}
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}
