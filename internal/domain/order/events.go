package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ticketing/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants. These double as broker routing keys on the
// ticketing.events topic exchange.
const (
	EventTypeOrderConfirmed = "order.confirmed"
	EventTypeOrderCancelled = "order.cancelled"
)

// OrderConfirmedEvent is raised when an order is confirmed. The hold id
// travels in the payload so the inventory consumer can commit the hold.
type OrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	HoldID      uuid.UUID       `json:"hold_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewOrderConfirmedEvent creates a new OrderConfirmedEvent
func NewOrderConfirmedEvent(o *Order) *OrderConfirmedEvent {
	return &OrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderConfirmed, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		HoldID:          o.HoldID,
		TotalAmount:     o.TotalAmount,
	}
}

// EventType returns the event type name
func (e *OrderConfirmedEvent) EventType() string {
	return EventTypeOrderConfirmed
}

// OrderCancelledEvent is raised when a pending order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
	HoldID  uuid.UUID `json:"hold_id"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(o *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		HoldID:          o.HoldID,
	}
}

// EventType returns the event type name
func (e *OrderCancelledEvent) EventType() string {
	return EventTypeOrderCancelled
}
