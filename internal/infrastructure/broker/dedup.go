package broker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ticketing/backend/internal/domain/shared"
)

// DedupMiddleware wraps a handler with a fast idempotency pre-filter.
// Events whose id is already marked in the store are dropped without
// invoking the handler. The store is best-effort: a miss (or a store
// error) lets the event through to the handler, whose transactional
// dedup remains authoritative. The mark is written only after the
// handler succeeds, so a failed attempt can be retried.
func DedupMiddleware(store shared.IdempotencyStore, ttl time.Duration, logger *zap.Logger) func(HandlerFunc) HandlerFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, evt shared.DomainEvent) error {
			eventID := evt.EventID().String()

			seen, err := store.IsProcessed(ctx, eventID)
			if err != nil {
				logger.Warn("idempotency pre-filter unavailable, passing event through",
					zap.String("event_id", eventID),
					zap.Error(err))
			} else if seen {
				logger.Debug("duplicate event dropped by pre-filter",
					zap.String("event_id", eventID),
					zap.String("event_type", evt.EventType()))
				return nil
			}

			if err := next(ctx, evt); err != nil {
				return err
			}

			if _, err := store.MarkProcessed(ctx, eventID, ttl); err != nil {
				logger.Warn("failed to mark event in idempotency pre-filter",
					zap.String("event_id", eventID),
					zap.Error(err))
			}
			return nil
		}
	}
}
