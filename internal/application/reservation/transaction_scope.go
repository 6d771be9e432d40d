package reservation

import (
	"context"

	"github.com/ticketing/backend/internal/domain/reservation"
	"github.com/ticketing/backend/internal/domain/shared"
)

// TransactionScope provides transactional access to the orchestrator's
// repositories. The expiry sweep writes the mirror transition and the
// hold.expired outbox row in the same database transaction.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the orchestrator-side
// repositories within a transaction
type TransactionalRepositories interface {
	// Holds returns the hold mirror repository scoped to the current transaction
	Holds() reservation.HoldRepository
	// Outbox returns the outbox repository scoped to the current transaction
	Outbox() shared.OutboxRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests.
type NoOpTransactionScope struct {
	holdRepo   reservation.HoldRepository
	outboxRepo shared.OutboxRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(holdRepo reservation.HoldRepository, outboxRepo shared.OutboxRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{holdRepo: holdRepo, outboxRepo: outboxRepo}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Holds returns the hold mirror repository
func (s *NoOpTransactionScope) Holds() reservation.HoldRepository {
	return s.holdRepo
}

// Outbox returns the outbox repository
func (s *NoOpTransactionScope) Outbox() shared.OutboxRepository {
	return s.outboxRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
