package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ticketing/backend/internal/domain/shared"
)

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusSucceeded PaymentStatus = "SUCCEEDED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusSucceeded, PaymentStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// Payment is 1:1 with an order; its amount always equals the order total
type Payment struct {
	shared.BaseEntity
	OrderID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Amount  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status  PaymentStatus   `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a pending payment for an order
func NewPayment(orderID uuid.UUID, amount decimal.Decimal) *Payment {
	return &Payment{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    orderID,
		Amount:     amount,
		Status:     PaymentStatusPending,
	}
}

// MarkSucceeded records a successful charge
func (p *Payment) MarkSucceeded() {
	p.Status = PaymentStatusSucceeded
	p.UpdatedAt = time.Now()
}

// MarkFailed records a declined charge. A later retry moves the
// payment back through PENDING via the confirm flow.
func (p *Payment) MarkFailed() {
	p.Status = PaymentStatusFailed
	p.UpdatedAt = time.Now()
}
