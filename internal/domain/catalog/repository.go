package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/ticketing/backend/internal/domain/shared"
)

// EventRepository defines the read-only interface for the catalog
type EventRepository interface {
	// FindByID finds an event with its sessions and ticket types
	FindByID(ctx context.Context, id uuid.UUID) (*Event, error)

	// FindAll lists events with pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]Event, int64, error)
}
