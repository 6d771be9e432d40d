package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ticketing/backend/internal/domain/inventory"
	"github.com/ticketing/backend/internal/domain/shared"
	"github.com/ticketing/backend/internal/domain/shared/valueobject"
)

// InventoryService orchestrates hold, release, commit and availability.
// Every mutation runs inside a transaction scope that locks the
// inventory row first, so all writers on one item serialize; the outbox
// write happens in the same transaction as the state change.
type InventoryService struct {
	itemRepo inventory.InventoryItemRepository
	scope    TransactionScope
	logger   *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(itemRepo inventory.InventoryItemRepository, scope TransactionScope, logger *zap.Logger) *InventoryService {
	return &InventoryService{
		itemRepo: itemRepo,
		scope:    scope,
		logger:   logger,
	}
}

// Hold reserves capacity for a caller-assigned hold id. The operation
// is idempotent: a retry that finds the hold already placed (or already
// terminal) succeeds without further effect.
func (s *InventoryService) Hold(ctx context.Context, cmd HoldCommand) (*HoldResult, error) {
	quantity, err := valueobject.NewQuantity(cmd.Quantity)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	if cmd.HoldID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "hold_id is required")
	}

	var result *HoldResult
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.Items().FindBySessionAndTicketTypeForUpdate(ctx, cmd.SessionID, cmd.TicketTypeID)
		if err != nil {
			return err
		}

		existing, err := repos.Holds().FindByID(ctx, cmd.HoldID)
		if err != nil && !errors.Is(err, shared.ErrHoldNotFound) {
			return err
		}
		if existing != nil {
			if existing.IsHeld() && !existing.Matches(item.ID, quantity) {
				return shared.NewDomainError("INVALID_INPUT", "hold_id already exists with different attributes")
			}
			// Idempotent replay: HELD with matching attributes, or terminal
			result = &HoldResult{HoldID: existing.ID, AvailableQuantity: item.AvailableQuantity}
			return nil
		}

		hold, err := item.PlaceHold(cmd.HoldID, quantity, cmd.ExpiresAt)
		if err != nil {
			if errors.Is(err, shared.ErrInsufficientInventory) {
				return &InsufficientInventoryError{AvailableQuantity: item.AvailableQuantity}
			}
			return err
		}

		if err := repos.Items().Save(ctx, item); err != nil {
			return fmt.Errorf("save inventory item: %w", err)
		}
		if err := repos.Holds().Save(ctx, hold); err != nil {
			return fmt.Errorf("save hold: %w", err)
		}
		if err := saveEventsToOutbox(ctx, repos.Outbox(), item); err != nil {
			return err
		}

		result = &HoldResult{HoldID: hold.ID, AvailableQuantity: item.AvailableQuantity}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("hold placed",
		zap.String("hold_id", cmd.HoldID.String()),
		zap.String("session_id", cmd.SessionID.String()),
		zap.Int64("quantity", cmd.Quantity),
		zap.Int64("available", result.AvailableQuantity))
	return result, nil
}

// Release returns a hold's quantity to the available pool. Releasing a
// RELEASED hold is a no-op success; releasing a COMMITTED hold is an
// invalid transition.
func (s *InventoryService) Release(ctx context.Context, holdID uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return s.releaseLocked(ctx, repos, holdID)
	})
	if err != nil {
		return err
	}
	s.logger.Info("hold released", zap.String("hold_id", holdID.String()))
	return nil
}

// Commit reclassifies a hold as a permanent allocation. Committing a
// COMMITTED hold is a no-op success; committing a RELEASED hold is an
// invalid transition. No quantity changes.
func (s *InventoryService) Commit(ctx context.Context, holdID uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return s.commitLocked(ctx, repos, holdID)
	})
	if err != nil {
		return err
	}
	s.logger.Info("hold committed", zap.String("hold_id", holdID.String()))
	return nil
}

// ReleaseFromEvent performs a release as the effect of a consumed
// event. The dedup row and the release share one transaction, so the
// effect runs at most once per event id.
func (s *InventoryService) ReleaseFromEvent(ctx context.Context, eventID uuid.UUID, eventType string, holdID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inserted, err := repos.ConsumedEvents().InsertIfAbsent(ctx, eventID, eventType)
		if err != nil {
			return err
		}
		if !inserted {
			s.logger.Debug("duplicate event ignored", zap.String("event_id", eventID.String()))
			return nil
		}
		err = s.releaseLocked(ctx, repos, holdID)
		if errors.Is(err, shared.ErrHoldNotFound) {
			// The hold never reached this service; nothing to release.
			s.logger.Warn("release for unknown hold", zap.String("hold_id", holdID.String()))
			return nil
		}
		return err
	})
}

// CommitFromEvent performs a commit as the effect of a consumed event,
// with the same transactional dedup as ReleaseFromEvent.
func (s *InventoryService) CommitFromEvent(ctx context.Context, eventID uuid.UUID, eventType string, holdID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		inserted, err := repos.ConsumedEvents().InsertIfAbsent(ctx, eventID, eventType)
		if err != nil {
			return err
		}
		if !inserted {
			s.logger.Debug("duplicate event ignored", zap.String("event_id", eventID.String()))
			return nil
		}
		return s.commitLocked(ctx, repos, holdID)
	})
}

// Availability returns a point-in-time snapshot for one item. Plain
// read, no locks; the value may be slightly stale.
func (s *InventoryService) Availability(ctx context.Context, sessionID, ticketTypeID uuid.UUID) (*AvailabilityResult, error) {
	item, err := s.itemRepo.FindBySessionAndTicketType(ctx, sessionID, ticketTypeID)
	if err != nil {
		return nil, err
	}
	return &AvailabilityResult{
		SessionID:         sessionID,
		TicketTypeID:      ticketTypeID,
		TotalQuantity:     item.TotalQuantity,
		AvailableQuantity: item.AvailableQuantity,
		HeldQuantity:      item.HeldQuantity(),
	}, nil
}

// releaseLocked loads the hold, locks its inventory row and applies the
// release. Runs inside the caller's transaction scope.
func (s *InventoryService) releaseLocked(ctx context.Context, repos TransactionalRepositories, holdID uuid.UUID) error {
	hold, err := repos.Holds().FindByID(ctx, holdID)
	if err != nil {
		return err
	}
	if hold.IsReleased() {
		return nil
	}
	if hold.IsCommitted() {
		return shared.ErrInvalidStateTransition
	}

	item, err := repos.Items().FindByIDForUpdate(ctx, hold.InventoryItemID)
	if err != nil {
		return err
	}
	// Re-read under the lock; another writer may have won the race
	hold, err = repos.Holds().FindByID(ctx, holdID)
	if err != nil {
		return err
	}
	if hold.IsReleased() {
		return nil
	}
	if hold.IsCommitted() {
		return shared.ErrInvalidStateTransition
	}

	if err := item.ReleaseHold(hold); err != nil {
		return err
	}
	if err := repos.Items().Save(ctx, item); err != nil {
		return fmt.Errorf("save inventory item: %w", err)
	}
	if err := repos.Holds().Save(ctx, hold); err != nil {
		return fmt.Errorf("save hold: %w", err)
	}
	return nil
}

// commitLocked mirrors releaseLocked for the commit transition
func (s *InventoryService) commitLocked(ctx context.Context, repos TransactionalRepositories, holdID uuid.UUID) error {
	hold, err := repos.Holds().FindByID(ctx, holdID)
	if err != nil {
		return err
	}
	if hold.IsCommitted() {
		return nil
	}
	if hold.IsReleased() {
		return shared.ErrInvalidStateTransition
	}

	item, err := repos.Items().FindByIDForUpdate(ctx, hold.InventoryItemID)
	if err != nil {
		return err
	}
	hold, err = repos.Holds().FindByID(ctx, holdID)
	if err != nil {
		return err
	}
	if hold.IsCommitted() {
		return nil
	}
	if hold.IsReleased() {
		return shared.ErrInvalidStateTransition
	}

	if err := item.CommitHold(hold); err != nil {
		return err
	}
	if err := repos.Items().Save(ctx, item); err != nil {
		return fmt.Errorf("save inventory item: %w", err)
	}
	if err := repos.Holds().Save(ctx, hold); err != nil {
		return fmt.Errorf("save hold: %w", err)
	}
	return nil
}

// saveEventsToOutbox serializes an aggregate's pending events into
// outbox entries within the current transaction, then clears them
func saveEventsToOutbox(ctx context.Context, outbox shared.OutboxRepository, agg shared.AggregateRoot) error {
	events := agg.GetDomainEvents()
	if len(events) == 0 {
		return nil
	}
	entries, err := shared.OutboxEntriesFromEvents(events...)
	if err != nil {
		return err
	}
	if err := outbox.Save(ctx, entries...); err != nil {
		return fmt.Errorf("save outbox entries: %w", err)
	}
	agg.ClearDomainEvents()
	return nil
}
