package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ticketing/backend/internal/domain/catalog"
	"github.com/ticketing/backend/internal/domain/shared"
)

// ReadCache caches serialized read models with a TTL. Lookups that
// miss return found=false with a nil error.
type ReadCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// EventService serves the read-only catalog. Single-event lookups go
// through the cache; list queries always hit the database.
type EventService struct {
	eventRepo catalog.EventRepository
	cache     ReadCache
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewEventService creates a new EventService. A nil cache disables caching.
func NewEventService(eventRepo catalog.EventRepository, cache ReadCache, cacheTTL time.Duration, logger *zap.Logger) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// Get returns an event with its sessions and ticket types
func (s *EventService) Get(ctx context.Context, id uuid.UUID) (*EventDTO, error) {
	key := "catalog:event:" + id.String()

	if s.cache != nil {
		if data, found, err := s.cache.Get(ctx, key); err != nil {
			s.logger.Warn("catalog cache read failed", zap.Error(err))
		} else if found {
			var dto EventDTO
			if err := json.Unmarshal(data, &dto); err == nil {
				return &dto, nil
			}
			s.logger.Warn("catalog cache entry corrupt", zap.String("key", key))
		}
	}

	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToEventDTO(event)

	if s.cache != nil {
		if data, err := json.Marshal(dto); err == nil {
			if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
				s.logger.Warn("catalog cache write failed", zap.Error(err))
			}
		}
	}
	return dto, nil
}

// List returns a page of events without their session details
func (s *EventService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[EventDTO], error) {
	events, total, err := s.eventRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]EventDTO, 0, len(events))
	for i := range events {
		dtos = append(dtos, *ToEventDTO(&events[i]))
	}
	page := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &page, nil
}
