package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ticketing/backend/internal/domain/order"
	"github.com/ticketing/backend/internal/domain/shared"
	"github.com/ticketing/backend/internal/domain/shared/valueobject"
)

// MockOrderRepository is a mock implementation of order.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIdempotencyKey(ctx context.Context, key string) (*order.Order, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

// MockOutboxRepository is a mock implementation of shared.OutboxRepository
type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockOutboxRepository) FindUnpublished(ctx context.Context, limit int) ([]*shared.OutboxEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shared.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockOutboxRepository) DeletePublishedOlderThan(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOutboxRepository) CountUnpublished(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockPaymentProvider is a mock implementation of PaymentProvider
type MockPaymentProvider struct {
	mock.Mock
}

func (m *MockPaymentProvider) Charge(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal) error {
	args := m.Called(ctx, orderID, amount)
	return args.Error(0)
}

type orderFixture struct {
	orderRepo  *MockOrderRepository
	outboxRepo *MockOutboxRepository
	payments   *MockPaymentProvider
	service    *OrderService
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	f := &orderFixture{
		orderRepo:  new(MockOrderRepository),
		outboxRepo: new(MockOutboxRepository),
		payments:   new(MockPaymentProvider),
	}
	scope := NewNoOpTransactionScope(f.orderRepo, f.outboxRepo)
	f.service = NewOrderService(f.orderRepo, f.payments, scope, zap.NewNop())
	return f
}

func createCommand() CreateOrderCommand {
	return CreateOrderCommand{
		IdempotencyKey: uuid.NewString(),
		CustomerEmail:  "buyer@example.com",
		HoldID:         uuid.New(),
		Items: []OrderItemCommand{
			{
				SessionID:    uuid.New(),
				TicketTypeID: uuid.New(),
				Quantity:     2,
				UnitPrice:    decimal.NewFromFloat(49.50),
			},
		},
	}
}

func pendingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		uuid.NewString(),
		valueobject.MustNewEmailAddress("buyer@example.com"),
		uuid.New(),
		[]order.ItemSpec{{
			SessionID:    uuid.New(),
			TicketTypeID: uuid.New(),
			Quantity:     valueobject.MustNewQuantity(2),
			UnitPrice:    valueobject.MustNewMoney("49.50", valueobject.USD),
		}},
	)
	require.NoError(t, err)
	return o
}

func TestOrderServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending order with computed total", func(t *testing.T) {
		f := newOrderFixture(t)
		cmd := createCommand()

		f.orderRepo.On("FindByIdempotencyKey", ctx, cmd.IdempotencyKey).Return(nil, shared.ErrOrderNotFound)
		f.orderRepo.On("Save", ctx, mock.AnythingOfType("*order.Order")).Return(nil)

		dto, created, err := f.service.Create(ctx, cmd)
		require.NoError(t, err)

		assert.True(t, created)
		assert.Equal(t, order.OrderStatusPending.String(), dto.Status)
		assert.True(t, decimal.NewFromFloat(99.00).Equal(dto.TotalAmount))
		assert.Equal(t, cmd.HoldID, dto.HoldID)
		assert.Equal(t, order.PaymentStatusPending.String(), dto.PaymentStatus)
	})

	t.Run("replays the existing order for a known key", func(t *testing.T) {
		f := newOrderFixture(t)
		existing := pendingOrder(t)
		cmd := createCommand()
		cmd.IdempotencyKey = existing.IdempotencyKey

		f.orderRepo.On("FindByIdempotencyKey", ctx, cmd.IdempotencyKey).Return(existing, nil)

		dto, created, err := f.service.Create(ctx, cmd)
		require.NoError(t, err)

		assert.False(t, created)
		assert.Equal(t, existing.ID, dto.ID)
		f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		f := newOrderFixture(t)
		cmd := createCommand()
		cmd.CustomerEmail = "not-an-email"

		_, _, err := f.service.Create(ctx, cmd)
		assert.Error(t, err)
		f.orderRepo.AssertNotCalled(t, "FindByIdempotencyKey", mock.Anything, mock.Anything)
	})

	t.Run("rejects empty item list", func(t *testing.T) {
		f := newOrderFixture(t)
		cmd := createCommand()
		cmd.Items = nil

		_, _, err := f.service.Create(ctx, cmd)
		assert.Error(t, err)
	})
}

func TestOrderServiceConfirm(t *testing.T) {
	ctx := context.Background()

	t.Run("charges and confirms, writing order.confirmed to the outbox", func(t *testing.T) {
		f := newOrderFixture(t)
		o := pendingOrder(t)

		f.orderRepo.On("FindByIDForUpdate", ctx, o.ID).Return(o, nil)
		f.payments.On("Charge", ctx, o.ID, o.TotalAmount).Return(nil)
		f.orderRepo.On("Save", ctx, o).Return(nil)
		f.outboxRepo.On("Save", ctx, mock.MatchedBy(func(entries []*shared.OutboxEntry) bool {
			return len(entries) == 1 && entries[0].EventType == order.EventTypeOrderConfirmed
		})).Return(nil)

		dto, err := f.service.Confirm(ctx, o.ID)
		require.NoError(t, err)

		assert.Equal(t, order.OrderStatusConfirmed.String(), dto.Status)
		assert.Equal(t, order.PaymentStatusSucceeded.String(), dto.PaymentStatus)
		f.outboxRepo.AssertExpectations(t)
	})

	t.Run("declined charge keeps order pending", func(t *testing.T) {
		f := newOrderFixture(t)
		o := pendingOrder(t)

		f.orderRepo.On("FindByIDForUpdate", ctx, o.ID).Return(o, nil)
		f.payments.On("Charge", ctx, o.ID, o.TotalAmount).Return(shared.ErrPaymentFailed)
		f.orderRepo.On("Save", ctx, o).Return(nil)

		_, err := f.service.Confirm(ctx, o.ID)
		assert.ErrorIs(t, err, shared.ErrPaymentFailed)
		assert.True(t, o.IsPending())
		assert.Equal(t, order.PaymentStatusFailed, o.Payment.Status)
		f.outboxRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("confirm of confirmed order is a no-op success", func(t *testing.T) {
		f := newOrderFixture(t)
		o := pendingOrder(t)
		require.NoError(t, o.Confirm())
		o.ClearDomainEvents()

		f.orderRepo.On("FindByIDForUpdate", ctx, o.ID).Return(o, nil)

		dto, err := f.service.Confirm(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.OrderStatusConfirmed.String(), dto.Status)
		f.payments.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("confirm of cancelled order is invalid", func(t *testing.T) {
		f := newOrderFixture(t)
		o := pendingOrder(t)
		require.NoError(t, o.Cancel())
		o.ClearDomainEvents()

		f.orderRepo.On("FindByIDForUpdate", ctx, o.ID).Return(o, nil)

		_, err := f.service.Confirm(ctx, o.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidStateTransition)
	})

	t.Run("transient charge error surfaces unchanged", func(t *testing.T) {
		f := newOrderFixture(t)
		o := pendingOrder(t)
		transient := errors.New("gateway timeout")

		f.orderRepo.On("FindByIDForUpdate", ctx, o.ID).Return(o, nil)
		f.payments.On("Charge", ctx, o.ID, o.TotalAmount).Return(transient)

		_, err := f.service.Confirm(ctx, o.ID)
		assert.ErrorIs(t, err, transient)
		assert.Equal(t, order.PaymentStatusPending, o.Payment.Status)
		f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestOrderServiceCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels a pending order and writes order.cancelled", func(t *testing.T) {
		f := newOrderFixture(t)
		o := pendingOrder(t)

		f.orderRepo.On("FindByIDForUpdate", ctx, o.ID).Return(o, nil)
		f.orderRepo.On("Save", ctx, o).Return(nil)
		f.outboxRepo.On("Save", ctx, mock.MatchedBy(func(entries []*shared.OutboxEntry) bool {
			return len(entries) == 1 && entries[0].EventType == order.EventTypeOrderCancelled
		})).Return(nil)

		dto, err := f.service.Cancel(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.OrderStatusCancelled.String(), dto.Status)
		f.outboxRepo.AssertExpectations(t)
	})

	t.Run("cancel of cancelled order is a no-op success", func(t *testing.T) {
		f := newOrderFixture(t)
		o := pendingOrder(t)
		require.NoError(t, o.Cancel())
		o.ClearDomainEvents()

		f.orderRepo.On("FindByIDForUpdate", ctx, o.ID).Return(o, nil)

		_, err := f.service.Cancel(ctx, o.ID)
		require.NoError(t, err)
		f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("cancel of confirmed order is invalid", func(t *testing.T) {
		f := newOrderFixture(t)
		o := pendingOrder(t)
		require.NoError(t, o.Confirm())
		o.ClearDomainEvents()

		f.orderRepo.On("FindByIDForUpdate", ctx, o.ID).Return(o, nil)

		_, err := f.service.Cancel(ctx, o.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidStateTransition)
	})
}

func TestOrderServiceGet(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	o := pendingOrder(t)

	f.orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

	dto, err := f.service.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, dto.ID)
	assert.Len(t, dto.Items, 1)

	missing := uuid.New()
	f.orderRepo.On("FindByID", ctx, missing).Return(nil, shared.ErrOrderNotFound)
	_, err = f.service.Get(ctx, missing)
	assert.ErrorIs(t, err, shared.ErrOrderNotFound)
}
