package persistence

import (
	"context"

	"gorm.io/gorm"

	appres "github.com/ticketing/backend/internal/application/reservation"
	"github.com/ticketing/backend/internal/domain/reservation"
	"github.com/ticketing/backend/internal/domain/shared"
)

// GormReservationTransactionScope implements the orchestrator
// TransactionScope using GORM transactions
type GormReservationTransactionScope struct {
	db *gorm.DB
}

// NewGormReservationTransactionScope creates a new GormReservationTransactionScope
func NewGormReservationTransactionScope(db *gorm.DB) *GormReservationTransactionScope {
	return &GormReservationTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormReservationTransactionScope) Execute(ctx context.Context, fn func(repos appres.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormReservationRepositories{tx: tx})
	})
}

// gormReservationRepositories provides transaction-scoped repositories
type gormReservationRepositories struct {
	tx *gorm.DB
}

// Holds returns the hold mirror repository scoped to the current transaction
func (r *gormReservationRepositories) Holds() reservation.HoldRepository {
	return NewGormReservationHoldRepository(r.tx)
}

// Outbox returns the outbox repository scoped to the current transaction
func (r *gormReservationRepositories) Outbox() shared.OutboxRepository {
	return NewGormOutboxRepository(r.tx)
}

// Ensure the implementations satisfy the application interfaces
var _ appres.TransactionScope = (*GormReservationTransactionScope)(nil)
var _ appres.TransactionalRepositories = (*gormReservationRepositories)(nil)
