package reservation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateHoldCommand carries the inputs for reserving capacity
type CreateHoldCommand struct {
	SessionID     uuid.UUID
	TicketTypeID  uuid.UUID
	Quantity      int64
	CustomerEmail string
}

// HoldDTO is returned to the client after a successful reservation
type HoldDTO struct {
	HoldID    uuid.UUID `json:"hold_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CheckoutCommand carries the inputs for turning a hold into a
// confirmed order
type CheckoutCommand struct {
	HoldID         uuid.UUID
	IdempotencyKey string
	CustomerEmail  string
	Items          []CheckoutItem
}

// CheckoutItem is one requested order line
type CheckoutItem struct {
	SessionID    uuid.UUID       `json:"session_id"`
	TicketTypeID uuid.UUID       `json:"ticket_type_id"`
	Quantity     int64           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

// CheckoutResult reports the confirmed order
type CheckoutResult struct {
	OrderID     uuid.UUID       `json:"order_id"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}
