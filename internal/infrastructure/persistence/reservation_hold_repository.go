package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ticketing/backend/internal/domain/reservation"
	"github.com/ticketing/backend/internal/domain/shared"
)

// GormReservationHoldRepository implements the orchestrator-side
// HoldRepository using GORM
type GormReservationHoldRepository struct {
	db *gorm.DB
}

// NewGormReservationHoldRepository creates a new GormReservationHoldRepository
func NewGormReservationHoldRepository(db *gorm.DB) *GormReservationHoldRepository {
	return &GormReservationHoldRepository{db: db}
}

// FindByID finds a hold mirror by its id
func (r *GormReservationHoldRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Hold, error) {
	var hold reservation.Hold
	if err := r.db.WithContext(ctx).First(&hold, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrHoldNotFound
		}
		return nil, err
	}
	return &hold, nil
}

// FindOverdue finds ACTIVE holds past their deadline, row-locked with
// SKIP LOCKED so concurrent sweeps never pick the same rows
func (r *GormReservationHoldRepository) FindOverdue(ctx context.Context, before time.Time, limit int) ([]*reservation.Hold, error) {
	var holds []*reservation.Hold
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ? AND expires_at < ?", reservation.HoldStatusActive, before).
		Order("expires_at ASC").
		Limit(limit).
		Find(&holds).Error; err != nil {
		return nil, err
	}
	return holds, nil
}

// Save creates or updates a hold mirror
func (r *GormReservationHoldRepository) Save(ctx context.Context, hold *reservation.Hold) error {
	return r.db.WithContext(ctx).Save(hold).Error
}

// Ensure GormReservationHoldRepository implements HoldRepository
var _ reservation.HoldRepository = (*GormReservationHoldRepository)(nil)
