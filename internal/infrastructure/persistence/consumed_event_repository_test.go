package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGormConsumedEventRepository_InsertIfAbsent(t *testing.T) {
	t.Run("reports true for a first delivery", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormConsumedEventRepository(gormDB)

		eventID := uuid.New()

		mock.ExpectExec(`INSERT INTO "consumed_events" (.+) ON CONFLICT DO NOTHING`).
			WithArgs(eventID, "hold.created", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		inserted, err := repo.InsertIfAbsent(context.Background(), eventID, "hold.created")

		assert.NoError(t, err)
		assert.True(t, inserted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports false for a redelivery", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormConsumedEventRepository(gormDB)

		eventID := uuid.New()

		mock.ExpectExec(`INSERT INTO "consumed_events" (.+) ON CONFLICT DO NOTHING`).
			WithArgs(eventID, "order.confirmed", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))

		inserted, err := repo.InsertIfAbsent(context.Background(), eventID, "order.confirmed")

		assert.NoError(t, err)
		assert.False(t, inserted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormConsumedEventRepository_DeleteOlderThan(t *testing.T) {
	t.Run("deletes rows consumed before the cutoff", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormConsumedEventRepository(gormDB)

		before := time.Now().Add(-7 * 24 * time.Hour)

		mock.ExpectExec(`DELETE FROM "consumed_events" WHERE consumed_at < \$1`).
			WithArgs(before).
			WillReturnResult(sqlmock.NewResult(0, 42))

		deleted, err := repo.DeleteOlderThan(context.Background(), before)

		assert.NoError(t, err)
		assert.Equal(t, int64(42), deleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
