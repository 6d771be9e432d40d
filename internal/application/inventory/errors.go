package inventory

import (
	"github.com/ticketing/backend/internal/domain/shared"
)

// InsufficientInventoryError carries the current available count so the
// HTTP layer can include it in the 409 response. It unwraps to the
// shared domain error, which keeps the usual code-to-status mapping.
type InsufficientInventoryError struct {
	AvailableQuantity int64
}

// Error implements the error interface
func (e *InsufficientInventoryError) Error() string {
	return shared.ErrInsufficientInventory.Message
}

// Unwrap exposes the underlying domain error
func (e *InsufficientInventoryError) Unwrap() error {
	return shared.ErrInsufficientInventory
}
