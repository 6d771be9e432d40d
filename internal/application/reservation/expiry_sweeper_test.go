package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ticketing/backend/internal/domain/reservation"
	"github.com/ticketing/backend/internal/domain/shared"
)

func newSweeperFixture(t *testing.T) (*ExpirySweeper, *MockHoldRepository, *MockOutboxRepository) {
	t.Helper()
	holdRepo := new(MockHoldRepository)
	outboxRepo := new(MockOutboxRepository)
	scope := NewNoOpTransactionScope(holdRepo, outboxRepo)
	sweeper := NewExpirySweeper(scope, time.Minute, 100, zap.NewNop())
	return sweeper, holdRepo, outboxRepo
}

func overdueMirror(t *testing.T) *reservation.Hold {
	t.Helper()
	h := activeMirror(t)
	h.ExpiresAt = time.Now().Add(-time.Second)
	return h
}

func TestExpirySweeperSweepOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("expires overdue holds and writes hold.expired per hold", func(t *testing.T) {
		sweeper, holdRepo, outboxRepo := newSweeperFixture(t)
		first := overdueMirror(t)
		second := overdueMirror(t)

		holdRepo.On("FindOverdue", ctx, mock.AnythingOfType("time.Time"), 100).
			Return([]*reservation.Hold{first, second}, nil)
		holdRepo.On("Save", ctx, mock.AnythingOfType("*reservation.Hold")).Return(nil).Twice()
		outboxRepo.On("Save", ctx, mock.MatchedBy(func(entries []*shared.OutboxEntry) bool {
			return len(entries) == 1 && entries[0].EventType == reservation.EventTypeHoldExpired
		})).Return(nil).Twice()

		require.NoError(t, sweeper.SweepOnce(ctx))

		assert.Equal(t, reservation.HoldStatusExpired, first.Status)
		assert.Equal(t, reservation.HoldStatusExpired, second.Status)
		assert.Empty(t, first.GetDomainEvents())
		outboxRepo.AssertExpectations(t)
	})

	t.Run("empty sweep is quiet", func(t *testing.T) {
		sweeper, holdRepo, outboxRepo := newSweeperFixture(t)

		holdRepo.On("FindOverdue", ctx, mock.AnythingOfType("time.Time"), 100).
			Return([]*reservation.Hold{}, nil)

		require.NoError(t, sweeper.SweepOnce(ctx))
		outboxRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("non-active hold in the batch is skipped, not fatal", func(t *testing.T) {
		sweeper, holdRepo, outboxRepo := newSweeperFixture(t)
		stale := overdueMirror(t)
		require.NoError(t, stale.MarkCommitted())
		live := overdueMirror(t)

		holdRepo.On("FindOverdue", ctx, mock.AnythingOfType("time.Time"), 100).
			Return([]*reservation.Hold{stale, live}, nil)
		holdRepo.On("Save", ctx, live).Return(nil)
		outboxRepo.On("Save", ctx, mock.Anything).Return(nil)

		require.NoError(t, sweeper.SweepOnce(ctx))

		assert.Equal(t, reservation.HoldStatusCommitted, stale.Status)
		assert.Equal(t, reservation.HoldStatusExpired, live.Status)
	})
}

func TestExpirySweeperStartStop(t *testing.T) {
	sweeper, holdRepo, _ := newSweeperFixture(t)
	sweeper.interval = 5 * time.Millisecond

	holdRepo.On("FindOverdue", mock.Anything, mock.AnythingOfType("time.Time"), 100).
		Return([]*reservation.Hold{}, nil)

	sweeper.Start(context.Background())
	time.Sleep(25 * time.Millisecond)
	sweeper.Stop()

	holdRepo.AssertCalled(t, "FindOverdue", mock.Anything, mock.AnythingOfType("time.Time"), 100)
}
