package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ticketing/backend/internal/domain/order"
)

// CreateOrderCommand carries the inputs for creating an order
type CreateOrderCommand struct {
	IdempotencyKey string
	CustomerEmail  string
	HoldID         uuid.UUID
	Items          []OrderItemCommand
}

// OrderItemCommand is one requested order line
type OrderItemCommand struct {
	SessionID    uuid.UUID
	TicketTypeID uuid.UUID
	Quantity     int64
	UnitPrice    decimal.Decimal
}

// OrderDTO is the read model returned by the order operations
type OrderDTO struct {
	ID             uuid.UUID       `json:"id"`
	Status         string          `json:"status"`
	CustomerEmail  string          `json:"customer_email"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	IdempotencyKey string          `json:"idempotency_key"`
	HoldID         uuid.UUID       `json:"hold_id"`
	Items          []OrderItemDTO  `json:"items"`
	PaymentStatus  string          `json:"payment_status,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// OrderItemDTO is one order line in the read model
type OrderItemDTO struct {
	SessionID    uuid.UUID       `json:"session_id"`
	TicketTypeID uuid.UUID       `json:"ticket_type_id"`
	Quantity     int64           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

// ToOrderDTO converts an order aggregate to its read model
func ToOrderDTO(o *order.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:             o.ID,
		Status:         o.Status.String(),
		CustomerEmail:  o.CustomerEmail.String(),
		TotalAmount:    o.TotalAmount,
		IdempotencyKey: o.IdempotencyKey,
		HoldID:         o.HoldID,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
	for _, item := range o.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			SessionID:    item.SessionID,
			TicketTypeID: item.TicketTypeID,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
		})
	}
	if o.Payment != nil {
		dto.PaymentStatus = o.Payment.Status.String()
	}
	return dto
}
