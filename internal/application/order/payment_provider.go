package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentProvider charges the customer for an order total. A declined
// charge returns shared.ErrPaymentFailed; any other error is treated as
// transient and surfaces to the caller unchanged.
type PaymentProvider interface {
	Charge(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal) error
}
