package inventory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ticketing/backend/internal/domain/order"
	"github.com/ticketing/backend/internal/domain/reservation"
	"github.com/ticketing/backend/internal/domain/shared"
)

// OrderConfirmedHandler commits the hold referenced by a confirmed
// order. The commit and the dedup insert share one transaction.
type OrderConfirmedHandler struct {
	service *InventoryService
	logger  *zap.Logger
}

// NewOrderConfirmedHandler creates a new OrderConfirmedHandler
func NewOrderConfirmedHandler(service *InventoryService, logger *zap.Logger) *OrderConfirmedHandler {
	return &OrderConfirmedHandler{service: service, logger: logger}
}

// EventTypes returns the event types this handler consumes
func (h *OrderConfirmedHandler) EventTypes() []string {
	return []string{order.EventTypeOrderConfirmed}
}

// Handle commits the hold carried in the event payload
func (h *OrderConfirmedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	confirmed, ok := event.(*order.OrderConfirmedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T for %s", event, order.EventTypeOrderConfirmed)
	}

	h.logger.Info("committing hold for confirmed order",
		zap.String("order_id", confirmed.OrderID.String()),
		zap.String("hold_id", confirmed.HoldID.String()))
	return h.service.CommitFromEvent(ctx, confirmed.EventID(), confirmed.EventType(), confirmed.HoldID)
}

// HoldExpiredHandler releases the hold retired by the expiry loop
type HoldExpiredHandler struct {
	service *InventoryService
	logger  *zap.Logger
}

// NewHoldExpiredHandler creates a new HoldExpiredHandler
func NewHoldExpiredHandler(service *InventoryService, logger *zap.Logger) *HoldExpiredHandler {
	return &HoldExpiredHandler{service: service, logger: logger}
}

// EventTypes returns the event types this handler consumes
func (h *HoldExpiredHandler) EventTypes() []string {
	return []string{reservation.EventTypeHoldExpired}
}

// Handle releases the expired hold
func (h *HoldExpiredHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	expired, ok := event.(*reservation.HoldExpiredEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T for %s", event, reservation.EventTypeHoldExpired)
	}

	h.logger.Info("releasing expired hold", zap.String("hold_id", expired.HoldID.String()))
	return h.service.ReleaseFromEvent(ctx, expired.EventID(), expired.EventType(), expired.HoldID)
}

// OrderCancelledHandler releases the hold behind a cancelled order.
// When the expiry loop already released it, the release is a no-op.
type OrderCancelledHandler struct {
	service *InventoryService
	logger  *zap.Logger
}

// NewOrderCancelledHandler creates a new OrderCancelledHandler
func NewOrderCancelledHandler(service *InventoryService, logger *zap.Logger) *OrderCancelledHandler {
	return &OrderCancelledHandler{service: service, logger: logger}
}

// EventTypes returns the event types this handler consumes
func (h *OrderCancelledHandler) EventTypes() []string {
	return []string{order.EventTypeOrderCancelled}
}

// Handle releases the hold carried in the event payload
func (h *OrderCancelledHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	cancelled, ok := event.(*order.OrderCancelledEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T for %s", event, order.EventTypeOrderCancelled)
	}

	h.logger.Info("releasing hold for cancelled order",
		zap.String("order_id", cancelled.OrderID.String()),
		zap.String("hold_id", cancelled.HoldID.String()))
	return h.service.ReleaseFromEvent(ctx, cancelled.EventID(), cancelled.EventType(), cancelled.HoldID)
}
