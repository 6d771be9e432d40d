package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ticketing/backend/internal/domain/inventory"
	"github.com/ticketing/backend/internal/domain/shared"
)

func holdRows(id, itemID uuid.UUID, quantity int64, status inventory.HoldStatus, expiresAt time.Time) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "created_at", "updated_at",
		"inventory_item_id", "quantity", "status", "expires_at",
	}).AddRow(id, now, now, itemID, quantity, status, expiresAt)
}

func TestGormHoldRepository_FindByID(t *testing.T) {
	t.Run("finds existing hold", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormHoldRepository(gormDB)

		holdID := uuid.New()
		itemID := uuid.New()
		expiresAt := time.Now().Add(10 * time.Minute)

		mock.ExpectQuery(`SELECT \* FROM "holds" WHERE id = \$1`).
			WithArgs(holdID, 1).
			WillReturnRows(holdRows(holdID, itemID, 2, inventory.HoldStatusHeld, expiresAt))

		hold, err := repo.FindByID(context.Background(), holdID)

		assert.NoError(t, err)
		require.NotNil(t, hold)
		assert.Equal(t, holdID, hold.ID)
		assert.Equal(t, inventory.HoldStatusHeld, hold.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing hold to hold not found", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormHoldRepository(gormDB)

		holdID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "holds" WHERE id = \$1`).
			WithArgs(holdID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		hold, err := repo.FindByID(context.Background(), holdID)

		assert.Nil(t, hold)
		assert.ErrorIs(t, err, shared.ErrHoldNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormHoldRepository_FindActiveByItem(t *testing.T) {
	t.Run("filters on HELD status", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormHoldRepository(gormDB)

		itemID := uuid.New()
		holdID := uuid.New()
		expiresAt := time.Now().Add(10 * time.Minute)

		mock.ExpectQuery(`SELECT \* FROM "holds" WHERE inventory_item_id = \$1 AND status = \$2`).
			WithArgs(itemID, string(inventory.HoldStatusHeld)).
			WillReturnRows(holdRows(holdID, itemID, 4, inventory.HoldStatusHeld, expiresAt))

		holds, err := repo.FindActiveByItem(context.Background(), itemID)

		assert.NoError(t, err)
		require.Len(t, holds, 1)
		assert.Equal(t, holdID, holds[0].ID)
		assert.Equal(t, int64(4), holds[0].Quantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns empty slice when no live holds", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormHoldRepository(gormDB)

		itemID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "holds" WHERE inventory_item_id = \$1 AND status = \$2`).
			WithArgs(itemID, string(inventory.HoldStatusHeld)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		holds, err := repo.FindActiveByItem(context.Background(), itemID)

		assert.NoError(t, err)
		assert.Empty(t, holds)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
