package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ticketing/backend/internal/domain/inventory"
	"github.com/ticketing/backend/internal/domain/shared"
)

// GormHoldRepository implements the inventory-side HoldRepository using GORM
type GormHoldRepository struct {
	db *gorm.DB
}

// NewGormHoldRepository creates a new GormHoldRepository
func NewGormHoldRepository(db *gorm.DB) *GormHoldRepository {
	return &GormHoldRepository{db: db}
}

// FindByID finds a hold by its caller-assigned id
func (r *GormHoldRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Hold, error) {
	var hold inventory.Hold
	if err := r.db.WithContext(ctx).First(&hold, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrHoldNotFound
		}
		return nil, err
	}
	return &hold, nil
}

// FindActiveByItem finds all HELD holds for an inventory item
func (r *GormHoldRepository) FindActiveByItem(ctx context.Context, inventoryItemID uuid.UUID) ([]inventory.Hold, error) {
	var holds []inventory.Hold
	if err := r.db.WithContext(ctx).
		Where("inventory_item_id = ? AND status = ?", inventoryItemID, inventory.HoldStatusHeld).
		Find(&holds).Error; err != nil {
		return nil, err
	}
	return holds, nil
}

// Save creates or updates a hold
func (r *GormHoldRepository) Save(ctx context.Context, hold *inventory.Hold) error {
	return r.db.WithContext(ctx).Save(hold).Error
}

// Ensure GormHoldRepository implements HoldRepository
var _ inventory.HoldRepository = (*GormHoldRepository)(nil)
