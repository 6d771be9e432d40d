package inventory

import (
	"context"

	"github.com/ticketing/backend/internal/domain/inventory"
	"github.com/ticketing/backend/internal/domain/shared"
)

// TransactionScope provides transactional access to inventory repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically. The hold/release/commit critical sections and the
// consumer dedup insert all run inside one scope.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the inventory-side
// repositories within a transaction. All repositories returned share the
// same underlying database transaction.
type TransactionalRepositories interface {
	// Items returns the inventory item repository scoped to the current transaction
	Items() inventory.InventoryItemRepository
	// Holds returns the hold repository scoped to the current transaction
	Holds() inventory.HoldRepository
	// Outbox returns the outbox repository scoped to the current transaction
	Outbox() shared.OutboxRepository
	// ConsumedEvents returns the dedup repository scoped to the current transaction
	ConsumedEvents() shared.ConsumedEventRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests.
type NoOpTransactionScope struct {
	itemRepo     inventory.InventoryItemRepository
	holdRepo     inventory.HoldRepository
	outboxRepo   shared.OutboxRepository
	consumedRepo shared.ConsumedEventRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	itemRepo inventory.InventoryItemRepository,
	holdRepo inventory.HoldRepository,
	outboxRepo shared.OutboxRepository,
	consumedRepo shared.ConsumedEventRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		itemRepo:     itemRepo,
		holdRepo:     holdRepo,
		outboxRepo:   outboxRepo,
		consumedRepo: consumedRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Items returns the inventory item repository
func (s *NoOpTransactionScope) Items() inventory.InventoryItemRepository {
	return s.itemRepo
}

// Holds returns the hold repository
func (s *NoOpTransactionScope) Holds() inventory.HoldRepository {
	return s.holdRepo
}

// Outbox returns the outbox repository
func (s *NoOpTransactionScope) Outbox() shared.OutboxRepository {
	return s.outboxRepo
}

// ConsumedEvents returns the dedup repository
func (s *NoOpTransactionScope) ConsumedEvents() shared.ConsumedEventRepository {
	return s.consumedRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
