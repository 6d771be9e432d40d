package inventory

import (
	"context"

	"github.com/google/uuid"
)

// InventoryItemRepository defines the interface for inventory item persistence
type InventoryItemRepository interface {
	// FindByID finds an inventory item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error)

	// FindBySessionAndTicketType finds the item for a (session, ticket type)
	// pair without locking. Used for availability reads; the value may be
	// slightly stale under snapshot isolation.
	FindBySessionAndTicketType(ctx context.Context, sessionID, ticketTypeID uuid.UUID) (*InventoryItem, error)

	// FindBySessionAndTicketTypeForUpdate finds the item and takes a
	// row-level exclusive lock. Must be called inside a transaction;
	// the lock serializes all writers on this item until commit.
	FindBySessionAndTicketTypeForUpdate(ctx context.Context, sessionID, ticketTypeID uuid.UUID) (*InventoryItem, error)

	// FindByIDForUpdate finds the item by id with the same row-level
	// exclusive lock. Used by release and commit, which start from a
	// hold and reach its item.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*InventoryItem, error)

	// Save creates or updates an inventory item
	Save(ctx context.Context, item *InventoryItem) error
}

// HoldRepository defines the interface for hold persistence.
//
// Hold is a child entity of the InventoryItem aggregate: all state
// transitions go through InventoryItem methods, and this repository
// only loads holds and syncs the resulting state.
type HoldRepository interface {
	// FindByID finds a hold by its caller-assigned id
	FindByID(ctx context.Context, id uuid.UUID) (*Hold, error)

	// FindActiveByItem finds live holds for an inventory item
	FindActiveByItem(ctx context.Context, inventoryItemID uuid.UUID) ([]Hold, error)

	// Save creates or updates a hold
	Save(ctx context.Context, hold *Hold) error
}
