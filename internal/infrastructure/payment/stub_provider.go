package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apporder "github.com/ticketing/backend/internal/application/order"
	"github.com/ticketing/backend/internal/domain/shared"
)

// StubProvider simulates a payment gateway. Charges succeed unless the
// amount's cent part is 99, which is declined deterministically so the
// failure path can be exercised end to end without a real gateway.
//
// TODO: replace with a real gateway adapter once one is selected.
type StubProvider struct {
	logger *zap.Logger
}

// NewStubProvider creates a stub payment provider
func NewStubProvider(logger *zap.Logger) *StubProvider {
	return &StubProvider{logger: logger}
}

// Charge simulates charging the customer for an order
func (p *StubProvider) Charge(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal) error {
	cents := amount.Mul(decimal.NewFromInt(100)).Mod(decimal.NewFromInt(100))
	if cents.Equal(decimal.NewFromInt(99)) {
		p.logger.Info("payment declined",
			zap.String("order_id", orderID.String()),
			zap.String("amount", amount.String()),
		)
		return shared.ErrPaymentFailed
	}

	p.logger.Info("payment approved",
		zap.String("order_id", orderID.String()),
		zap.String("amount", amount.String()),
	)
	return nil
}

// Ensure StubProvider implements PaymentProvider
var _ apporder.PaymentProvider = (*StubProvider)(nil)
