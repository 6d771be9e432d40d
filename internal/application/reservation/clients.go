package reservation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlaceHoldRequest carries the inventory hold call parameters
type PlaceHoldRequest struct {
	HoldID       uuid.UUID
	SessionID    uuid.UUID
	TicketTypeID uuid.UUID
	Quantity     int64
	ExpiresAt    time.Time
}

// PlaceHoldResponse is the inventory service's answer to a hold call
type PlaceHoldResponse struct {
	AvailableQuantity int64
}

// InventoryClient is the orchestrator's view of the inventory service.
// Implementations map insufficient inventory to
// shared.ErrInsufficientInventory and connection errors or timeouts to
// shared.ErrInventoryUnavailable.
type InventoryClient interface {
	PlaceHold(ctx context.Context, req PlaceHoldRequest) (*PlaceHoldResponse, error)
}

// CreateOrderRequest carries the order creation call parameters
type CreateOrderRequest struct {
	IdempotencyKey string
	CustomerEmail  string
	HoldID         uuid.UUID
	Items          []OrderItemRequest
}

// OrderItemRequest is one requested order line
type OrderItemRequest struct {
	SessionID    uuid.UUID
	TicketTypeID uuid.UUID
	Quantity     int64
	UnitPrice    decimal.Decimal
}

// OrderSummary is the order service's order envelope as the
// orchestrator sees it
type OrderSummary struct {
	ID          uuid.UUID
	Status      string
	TotalAmount decimal.Decimal
}

// OrderClient is the orchestrator's view of the order service.
// Implementations map a declined payment to shared.ErrPaymentFailed.
type OrderClient interface {
	// CreateOrder creates or replays an order; the bool reports whether
	// a new order was created
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderSummary, bool, error)
	// ConfirmOrder charges and confirms an order
	ConfirmOrder(ctx context.Context, orderID uuid.UUID) (*OrderSummary, error)
}
