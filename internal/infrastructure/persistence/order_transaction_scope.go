package persistence

import (
	"context"

	"gorm.io/gorm"

	apporder "github.com/ticketing/backend/internal/application/order"
	"github.com/ticketing/backend/internal/domain/order"
	"github.com/ticketing/backend/internal/domain/shared"
)

// GormOrderTransactionScope implements the order TransactionScope using
// GORM transactions
type GormOrderTransactionScope struct {
	db *gorm.DB
}

// NewGormOrderTransactionScope creates a new GormOrderTransactionScope
func NewGormOrderTransactionScope(db *gorm.DB) *GormOrderTransactionScope {
	return &GormOrderTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormOrderTransactionScope) Execute(ctx context.Context, fn func(repos apporder.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormOrderRepositories{tx: tx})
	})
}

// gormOrderRepositories provides transaction-scoped repositories
type gormOrderRepositories struct {
	tx *gorm.DB
}

// Orders returns the order repository scoped to the current transaction
func (r *gormOrderRepositories) Orders() order.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

// Outbox returns the outbox repository scoped to the current transaction
func (r *gormOrderRepositories) Outbox() shared.OutboxRepository {
	return NewGormOutboxRepository(r.tx)
}

// Ensure the implementations satisfy the application interfaces
var _ apporder.TransactionScope = (*GormOrderTransactionScope)(nil)
var _ apporder.TransactionalRepositories = (*gormOrderRepositories)(nil)
