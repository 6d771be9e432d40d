package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ticketing/backend/internal/domain/shared"
)

// GormConsumedEventRepository implements ConsumedEventRepository using
// GORM. The insert runs in the same transaction as the consumer's
// effect, so the effect executes at most once per event id.
type GormConsumedEventRepository struct {
	db *gorm.DB
}

// NewGormConsumedEventRepository creates a new GormConsumedEventRepository
func NewGormConsumedEventRepository(db *gorm.DB) *GormConsumedEventRepository {
	return &GormConsumedEventRepository{db: db}
}

// InsertIfAbsent inserts the dedup row, reporting false when the event
// id was already recorded. Uses ON CONFLICT DO NOTHING on the primary key.
func (r *GormConsumedEventRepository) InsertIfAbsent(ctx context.Context, eventID uuid.UUID, eventType string) (bool, error) {
	record := shared.NewConsumedEvent(eventID, eventType)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(record)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteOlderThan removes dedup rows consumed before the given time
func (r *GormConsumedEventRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("consumed_at < ?", before).
		Delete(&shared.ConsumedEvent{})
	return result.RowsAffected, result.Error
}

// Ensure GormConsumedEventRepository implements ConsumedEventRepository
var _ shared.ConsumedEventRepository = (*GormConsumedEventRepository)(nil)
