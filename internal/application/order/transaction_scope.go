package order

import (
	"context"

	"github.com/ticketing/backend/internal/domain/order"
	"github.com/ticketing/backend/internal/domain/shared"
)

// TransactionScope provides transactional access to order repositories.
// Confirm and cancel write the order row and the outbox entry in the
// same database transaction.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the order-side
// repositories within a transaction
type TransactionalRepositories interface {
	// Orders returns the order repository scoped to the current transaction
	Orders() order.OrderRepository
	// Outbox returns the outbox repository scoped to the current transaction
	Outbox() shared.OutboxRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests.
type NoOpTransactionScope struct {
	orderRepo  order.OrderRepository
	outboxRepo shared.OutboxRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(orderRepo order.OrderRepository, outboxRepo shared.OutboxRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{orderRepo: orderRepo, outboxRepo: outboxRepo}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Orders returns the order repository
func (s *NoOpTransactionScope) Orders() order.OrderRepository {
	return s.orderRepo
}

// Outbox returns the outbox repository
func (s *NoOpTransactionScope) Outbox() shared.OutboxRepository {
	return s.outboxRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
