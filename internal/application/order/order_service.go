package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ticketing/backend/internal/domain/order"
	"github.com/ticketing/backend/internal/domain/shared"
	"github.com/ticketing/backend/internal/domain/shared/valueobject"
)

// OrderService orchestrates the order lifecycle. Creation is idempotent
// by the caller-supplied idempotency key; confirm and cancel serialize
// on a row lock and write their events through the outbox.
type OrderService struct {
	orderRepo order.OrderRepository
	payments  PaymentProvider
	scope     TransactionScope
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo order.OrderRepository, payments PaymentProvider, scope TransactionScope, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		payments:  payments,
		scope:     scope,
		logger:    logger,
	}
}

// Create creates a PENDING order, or returns the existing order when
// the idempotency key was seen before. The second return value reports
// whether a new order was created.
func (s *OrderService) Create(ctx context.Context, cmd CreateOrderCommand) (*OrderDTO, bool, error) {
	email, err := valueobject.NewEmailAddress(cmd.CustomerEmail)
	if err != nil {
		return nil, false, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	specs, err := toItemSpecs(cmd.Items)
	if err != nil {
		return nil, false, err
	}

	var dto *OrderDTO
	var created bool
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.Orders().FindByIdempotencyKey(ctx, cmd.IdempotencyKey)
		if err != nil && !errors.Is(err, shared.ErrOrderNotFound) {
			return err
		}
		if existing != nil {
			dto = ToOrderDTO(existing)
			return nil
		}

		o, err := order.NewOrder(cmd.IdempotencyKey, email, cmd.HoldID, specs)
		if err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, o); err != nil {
			return fmt.Errorf("save order: %w", err)
		}

		dto = ToOrderDTO(o)
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		s.logger.Info("order created",
			zap.String("order_id", dto.ID.String()),
			zap.String("hold_id", cmd.HoldID.String()),
			zap.String("total", dto.TotalAmount.String()))
	} else {
		s.logger.Info("order create replayed",
			zap.String("order_id", dto.ID.String()),
			zap.String("idempotency_key", cmd.IdempotencyKey))
	}
	return dto, created, nil
}

// Confirm charges the payment and transitions the order to CONFIRMED.
// Confirming a CONFIRMED order is a no-op success; a declined charge
// keeps the order PENDING and returns PAYMENT_FAILED so the caller can
// retry or cancel.
func (s *OrderService) Confirm(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	var dto *OrderDTO
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.Orders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o.IsConfirmed() {
			dto = ToOrderDTO(o)
			return nil
		}
		if o.IsCancelled() {
			return shared.ErrInvalidStateTransition
		}

		if err := s.payments.Charge(ctx, o.ID, o.TotalAmount); err != nil {
			if errors.Is(err, shared.ErrPaymentFailed) {
				if recordErr := o.RecordPaymentFailure(); recordErr != nil {
					return recordErr
				}
				if saveErr := repos.Orders().Save(ctx, o); saveErr != nil {
					return fmt.Errorf("save order: %w", saveErr)
				}
			}
			return err
		}

		if err := o.Confirm(); err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, o); err != nil {
			return fmt.Errorf("save order: %w", err)
		}
		if err := saveEventsToOutbox(ctx, repos.Outbox(), o); err != nil {
			return err
		}

		dto = ToOrderDTO(o)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order confirmed", zap.String("order_id", orderID.String()))
	return dto, nil
}

// Cancel transitions the order to CANCELLED and emits order.cancelled.
// Cancelling a CANCELLED order is a no-op success; cancelling a
// CONFIRMED order is an invalid transition.
func (s *OrderService) Cancel(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	var dto *OrderDTO
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.Orders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o.IsCancelled() {
			dto = ToOrderDTO(o)
			return nil
		}

		if err := o.Cancel(); err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, o); err != nil {
			return fmt.Errorf("save order: %w", err)
		}
		if err := saveEventsToOutbox(ctx, repos.Outbox(), o); err != nil {
			return err
		}

		dto = ToOrderDTO(o)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order cancelled", zap.String("order_id", orderID.String()))
	return dto, nil
}

// Get returns the order with its items and payment
func (s *OrderService) Get(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return ToOrderDTO(o), nil
}

func toItemSpecs(items []OrderItemCommand) ([]order.ItemSpec, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "order must contain at least one item")
	}
	specs := make([]order.ItemSpec, 0, len(items))
	for _, item := range items {
		quantity, err := valueobject.NewQuantity(item.Quantity)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
		}
		price, err := valueobject.NewMoney(item.UnitPrice, valueobject.DefaultCurrency)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
		}
		specs = append(specs, order.ItemSpec{
			SessionID:    item.SessionID,
			TicketTypeID: item.TicketTypeID,
			Quantity:     quantity,
			UnitPrice:    price,
		})
	}
	return specs, nil
}

// saveEventsToOutbox serializes an aggregate's pending events into
// outbox entries within the current transaction, then clears them
func saveEventsToOutbox(ctx context.Context, outbox shared.OutboxRepository, agg shared.AggregateRoot) error {
	events := agg.GetDomainEvents()
	if len(events) == 0 {
		return nil
	}
	entries, err := shared.OutboxEntriesFromEvents(events...)
	if err != nil {
		return err
	}
	if err := outbox.Save(ctx, entries...); err != nil {
		return fmt.Errorf("save outbox entries: %w", err)
	}
	agg.ClearDomainEvents()
	return nil
}
