package persistence

import (
	"context"

	"gorm.io/gorm"

	appinv "github.com/ticketing/backend/internal/application/inventory"
	"github.com/ticketing/backend/internal/domain/inventory"
	"github.com/ticketing/backend/internal/domain/shared"
)

// GormInventoryTransactionScope implements the inventory TransactionScope
// using GORM transactions
type GormInventoryTransactionScope struct {
	db *gorm.DB
}

// NewGormInventoryTransactionScope creates a new GormInventoryTransactionScope
func NewGormInventoryTransactionScope(db *gorm.DB) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormInventoryRepositories{tx: tx})
	})
}

// gormInventoryRepositories provides transaction-scoped repositories
type gormInventoryRepositories struct {
	tx *gorm.DB
}

// Items returns the inventory item repository scoped to the current transaction
func (r *gormInventoryRepositories) Items() inventory.InventoryItemRepository {
	return NewGormInventoryItemRepository(r.tx)
}

// Holds returns the hold repository scoped to the current transaction
func (r *gormInventoryRepositories) Holds() inventory.HoldRepository {
	return NewGormHoldRepository(r.tx)
}

// Outbox returns the outbox repository scoped to the current transaction
func (r *gormInventoryRepositories) Outbox() shared.OutboxRepository {
	return NewGormOutboxRepository(r.tx)
}

// ConsumedEvents returns the dedup repository scoped to the current transaction
func (r *gormInventoryRepositories) ConsumedEvents() shared.ConsumedEventRepository {
	return NewGormConsumedEventRepository(r.tx)
}

// Ensure the implementations satisfy the application interfaces
var _ appinv.TransactionScope = (*GormInventoryTransactionScope)(nil)
var _ appinv.TransactionalRepositories = (*gormInventoryRepositories)(nil)
