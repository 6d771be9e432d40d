package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ticketing/backend/internal/domain/catalog"
	"github.com/ticketing/backend/internal/domain/shared"
)

// catalogSortFields whitelists the sortable columns of the events table
var catalogSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"venue":      true,
}

// GormEventRepository implements the read-only catalog repository using GORM
type GormEventRepository struct {
	db *gorm.DB
}

// NewGormEventRepository creates a new GormEventRepository
func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

// FindByID finds an event with its sessions and ticket types
func (r *GormEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Event, error) {
	var event catalog.Event
	if err := r.db.WithContext(ctx).
		Preload("Sessions").
		Preload("Sessions.TicketTypes").
		First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// FindAll lists events with pagination. Search matches name and venue.
func (r *GormEventRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Event, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Event{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR venue ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := validateSortField(filter.OrderBy, catalogSortFields, "created_at")
	orderDir := validateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var events []catalog.Event
	if err := query.Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// validateSortOrder normalizes the sort order to ASC or DESC
func validateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "ASC") {
		return "ASC"
	}
	return "DESC"
}

// validateSortField validates the sort field against a whitelist
func validateSortField(sortField string, allowed map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" || !allowed[trimmed] {
		return defaultField
	}
	return trimmed
}

// Ensure GormEventRepository implements EventRepository
var _ catalog.EventRepository = (*GormEventRepository)(nil)
