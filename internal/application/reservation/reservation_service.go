package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ticketing/backend/internal/domain/reservation"
	"github.com/ticketing/backend/internal/domain/shared"
	"github.com/ticketing/backend/internal/domain/shared/valueobject"
)

// ReservationService is the public-facing orchestrator. It assigns
// hold ids, drives the inventory service synchronously, keeps the hold
// mirror the expiry loop sweeps, and proxies checkout to the order
// service.
type ReservationService struct {
	inventory InventoryClient
	orders    OrderClient
	scope     TransactionScope
	holdTTL   time.Duration
	logger    *zap.Logger
}

// NewReservationService creates a new ReservationService
func NewReservationService(inventory InventoryClient, orders OrderClient, scope TransactionScope, holdTTL time.Duration, logger *zap.Logger) *ReservationService {
	return &ReservationService{
		inventory: inventory,
		orders:    orders,
		scope:     scope,
		holdTTL:   holdTTL,
		logger:    logger,
	}
}

// CreateHold reserves capacity under a freshly assigned hold id. The
// inventory call happens first; the ACTIVE mirror is recorded only
// after the reservation stuck.
func (s *ReservationService) CreateHold(ctx context.Context, cmd CreateHoldCommand) (*HoldDTO, error) {
	quantity, err := valueobject.NewQuantity(cmd.Quantity)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	email, err := valueobject.NewEmailAddress(cmd.CustomerEmail)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	hold := reservation.NewHold(cmd.SessionID, cmd.TicketTypeID, quantity, email, time.Now().Add(s.holdTTL))

	_, err = s.inventory.PlaceHold(ctx, PlaceHoldRequest{
		HoldID:       hold.ID,
		SessionID:    cmd.SessionID,
		TicketTypeID: cmd.TicketTypeID,
		Quantity:     cmd.Quantity,
		ExpiresAt:    hold.ExpiresAt,
	})
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.Holds().Save(ctx, hold)
	})
	if err != nil {
		// The inventory hold stays in place until its deadline passes;
		// without a mirror row the sweeper cannot release it early.
		return nil, fmt.Errorf("save hold mirror: %w", err)
	}

	s.logger.Info("hold created",
		zap.String("hold_id", hold.ID.String()),
		zap.String("session_id", cmd.SessionID.String()),
		zap.Int64("quantity", cmd.Quantity),
		zap.Time("expires_at", hold.ExpiresAt))
	return &HoldDTO{HoldID: hold.ID, ExpiresAt: hold.ExpiresAt}, nil
}

// Checkout creates and confirms an order against a held reservation.
// On a declined payment the order stays PENDING and the hold stays
// ACTIVE, so the client can retry until the hold expires.
func (s *ReservationService) Checkout(ctx context.Context, cmd CheckoutCommand) (*CheckoutResult, error) {
	if cmd.IdempotencyKey == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "idempotency_key is required")
	}
	if cmd.HoldID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "hold_id is required")
	}
	if len(cmd.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "at least one item is required")
	}

	var mirror *reservation.Hold
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		mirror, err = repos.Holds().FindByID(ctx, cmd.HoldID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !mirror.IsActive() {
		return nil, shared.ErrInvalidStateTransition
	}

	items := make([]OrderItemRequest, 0, len(cmd.Items))
	for _, item := range cmd.Items {
		items = append(items, OrderItemRequest{
			SessionID:    item.SessionID,
			TicketTypeID: item.TicketTypeID,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
		})
	}

	summary, created, err := s.orders.CreateOrder(ctx, CreateOrderRequest{
		IdempotencyKey: cmd.IdempotencyKey,
		CustomerEmail:  cmd.CustomerEmail,
		HoldID:         cmd.HoldID,
		Items:          items,
	})
	if err != nil {
		return nil, err
	}
	if created {
		s.logger.Info("order created for checkout",
			zap.String("order_id", summary.ID.String()),
			zap.String("hold_id", cmd.HoldID.String()))
	}

	confirmed, err := s.orders.ConfirmOrder(ctx, summary.ID)
	if err != nil {
		// A declined payment leaves the order PENDING and the mirror
		// ACTIVE; the expiry loop reclaims the hold if nobody retries.
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		mirror, err := repos.Holds().FindByID(ctx, cmd.HoldID)
		if err != nil {
			return err
		}
		if !mirror.IsActive() {
			// The sweeper raced us between confirm and here; the commit
			// side resolves through order.confirmed either way.
			return nil
		}
		if err := mirror.MarkCommitted(); err != nil {
			return err
		}
		return repos.Holds().Save(ctx, mirror)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("checkout completed",
		zap.String("order_id", confirmed.ID.String()),
		zap.String("hold_id", cmd.HoldID.String()),
		zap.String("total", confirmed.TotalAmount.String()))
	return &CheckoutResult{
		OrderID:     confirmed.ID,
		Status:      confirmed.Status,
		TotalAmount: confirmed.TotalAmount,
	}, nil
}
