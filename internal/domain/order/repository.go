package order

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its items and payment
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForUpdate finds an order and takes a row-level exclusive
	// lock. Must be called inside a transaction; confirm and cancel
	// serialize on this lock.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIdempotencyKey finds an order by its idempotency key
	FindByIdempotencyKey(ctx context.Context, key string) (*Order, error)

	// Save creates or updates an order together with its items and payment
	Save(ctx context.Context, o *Order) error
}
