package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ticketing/backend/internal/domain/shared"
	"github.com/ticketing/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// OrderItem represents a line item in an order
type OrderItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	SessionID    uuid.UUID       `gorm:"type:uuid;not null"`
	TicketTypeID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity     int64           `gorm:"not null;check:quantity > 0"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates a new order item
func NewOrderItem(orderID, sessionID, ticketTypeID uuid.UUID, quantity valueobject.Quantity, unitPrice valueobject.Money) (*OrderItem, error) {
	if sessionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}
	if ticketTypeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TICKET_TYPE", "Ticket type ID cannot be empty")
	}

	now := time.Now()
	return &OrderItem{
		ID:           uuid.New(),
		OrderID:      orderID,
		SessionID:    sessionID,
		TicketTypeID: ticketTypeID,
		Quantity:     quantity.Value64(),
		UnitPrice:    unitPrice.Amount(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Amount returns quantity * unit price
func (i *OrderItem) Amount() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// Order is the aggregate root for a customer order. It references the
// hold that reserved its capacity and is idempotent by the
// caller-supplied idempotency key (unique index).
type Order struct {
	shared.BaseAggregateRoot
	CustomerEmail  valueobject.EmailAddress `gorm:"type:varchar(255);not null"`
	Status         OrderStatus              `gorm:"type:varchar(20);not null;index"`
	TotalAmount    decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	IdempotencyKey string                   `gorm:"type:varchar(100);not null;uniqueIndex"`
	HoldID         uuid.UUID                `gorm:"type:uuid;not null;index"`
	Items          []OrderItem              `gorm:"foreignKey:OrderID"`
	Payment        *Payment                 `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// ItemSpec carries the validated inputs for one order line
type ItemSpec struct {
	SessionID    uuid.UUID
	TicketTypeID uuid.UUID
	Quantity     valueobject.Quantity
	UnitPrice    valueobject.Money
}

// NewOrder creates a new PENDING order with its items and a pending
// payment for the computed total
func NewOrder(idempotencyKey string, customerEmail valueobject.EmailAddress, holdID uuid.UUID, specs []ItemSpec) (*Order, error) {
	if idempotencyKey == "" {
		return nil, shared.NewDomainError("INVALID_IDEMPOTENCY_KEY", "Idempotency key cannot be empty")
	}
	if holdID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_HOLD", "Hold ID cannot be empty")
	}
	if len(specs) == 0 {
		return nil, shared.NewDomainError("INVALID_ITEMS", "Order must contain at least one item")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerEmail:     customerEmail,
		Status:            OrderStatusPending,
		IdempotencyKey:    idempotencyKey,
		HoldID:            holdID,
	}

	total := decimal.Zero
	for _, spec := range specs {
		item, err := NewOrderItem(o.ID, spec.SessionID, spec.TicketTypeID, spec.Quantity, spec.UnitPrice)
		if err != nil {
			return nil, err
		}
		o.Items = append(o.Items, *item)
		total = total.Add(item.Amount())
	}
	o.TotalAmount = total
	o.Payment = NewPayment(o.ID, total)

	return o, nil
}

// IsPending returns true if the order awaits confirmation or cancel
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// IsConfirmed returns true if the order was confirmed
func (o *Order) IsConfirmed() bool {
	return o.Status == OrderStatusConfirmed
}

// IsCancelled returns true if the order was cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// CanConfirm returns true if the order may transition to CONFIRMED
func (o *Order) CanConfirm() bool {
	return o.Status.CanTransitionTo(OrderStatusConfirmed)
}

// CanCancel returns true if the order may transition to CANCELLED
func (o *Order) CanCancel() bool {
	return o.Status.CanTransitionTo(OrderStatusCancelled)
}

// Confirm transitions PENDING -> CONFIRMED after a successful payment
// and emits order.confirmed
func (o *Order) Confirm() error {
	if !o.CanConfirm() {
		return shared.ErrInvalidStateTransition
	}
	o.Status = OrderStatusConfirmed
	o.Payment.MarkSucceeded()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderConfirmedEvent(o))
	return nil
}

// RecordPaymentFailure keeps the order PENDING and marks the payment
// FAILED so a later confirm attempt can retry
func (o *Order) RecordPaymentFailure() error {
	if !o.IsPending() {
		return shared.ErrInvalidStateTransition
	}
	o.Payment.MarkFailed()
	o.UpdatedAt = time.Now()
	return nil
}

// Cancel transitions PENDING -> CANCELLED and emits order.cancelled
func (o *Order) Cancel() error {
	if !o.CanCancel() {
		return shared.ErrInvalidStateTransition
	}
	o.Status = OrderStatusCancelled
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderCancelledEvent(o))
	return nil
}
