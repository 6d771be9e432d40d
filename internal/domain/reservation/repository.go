package reservation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// HoldRepository defines the interface for hold mirror persistence
type HoldRepository interface {
	// FindByID finds a hold mirror by its id
	FindByID(ctx context.Context, id uuid.UUID) (*Hold, error)

	// FindOverdue finds ACTIVE holds whose deadline passed before the
	// given instant, up to limit rows. Implementations lock the rows
	// (skipping ones locked by a concurrent sweep) so two sweepers
	// never expire the same hold twice.
	FindOverdue(ctx context.Context, before time.Time, limit int) ([]*Hold, error)

	// Save creates or updates a hold mirror
	Save(ctx context.Context, hold *Hold) error
}
