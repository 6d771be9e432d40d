package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ticketing/backend/internal/domain/inventory"
	"github.com/ticketing/backend/internal/domain/shared"
	"github.com/ticketing/backend/internal/domain/shared/valueobject"
)

// MockInventoryItemRepository is a mock implementation of inventory.InventoryItemRepository
type MockInventoryItemRepository struct {
	mock.Mock
}

func (m *MockInventoryItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryItem), args.Error(1)
}

func (m *MockInventoryItemRepository) FindBySessionAndTicketType(ctx context.Context, sessionID, ticketTypeID uuid.UUID) (*inventory.InventoryItem, error) {
	args := m.Called(ctx, sessionID, ticketTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryItem), args.Error(1)
}

func (m *MockInventoryItemRepository) FindBySessionAndTicketTypeForUpdate(ctx context.Context, sessionID, ticketTypeID uuid.UUID) (*inventory.InventoryItem, error) {
	args := m.Called(ctx, sessionID, ticketTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryItem), args.Error(1)
}

func (m *MockInventoryItemRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryItem), args.Error(1)
}

func (m *MockInventoryItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

// MockHoldRepository is a mock implementation of inventory.HoldRepository
type MockHoldRepository struct {
	mock.Mock
}

func (m *MockHoldRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Hold, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Hold), args.Error(1)
}

func (m *MockHoldRepository) FindActiveByItem(ctx context.Context, inventoryItemID uuid.UUID) ([]inventory.Hold, error) {
	args := m.Called(ctx, inventoryItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Hold), args.Error(1)
}

func (m *MockHoldRepository) Save(ctx context.Context, hold *inventory.Hold) error {
	args := m.Called(ctx, hold)
	return args.Error(0)
}

// MockOutboxRepository is a mock implementation of shared.OutboxRepository
type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockOutboxRepository) FindUnpublished(ctx context.Context, limit int) ([]*shared.OutboxEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shared.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockOutboxRepository) DeletePublishedOlderThan(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOutboxRepository) CountUnpublished(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockConsumedEventRepository is a mock implementation of shared.ConsumedEventRepository
type MockConsumedEventRepository struct {
	mock.Mock
}

func (m *MockConsumedEventRepository) InsertIfAbsent(ctx context.Context, eventID uuid.UUID, eventType string) (bool, error) {
	args := m.Called(ctx, eventID, eventType)
	return args.Bool(0), args.Error(1)
}

func (m *MockConsumedEventRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

type serviceFixture struct {
	itemRepo     *MockInventoryItemRepository
	holdRepo     *MockHoldRepository
	outboxRepo   *MockOutboxRepository
	consumedRepo *MockConsumedEventRepository
	service      *InventoryService
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		itemRepo:     new(MockInventoryItemRepository),
		holdRepo:     new(MockHoldRepository),
		outboxRepo:   new(MockOutboxRepository),
		consumedRepo: new(MockConsumedEventRepository),
	}
	scope := NewNoOpTransactionScope(f.itemRepo, f.holdRepo, f.outboxRepo, f.consumedRepo)
	f.service = NewInventoryService(f.itemRepo, scope, zap.NewNop())
	return f
}

func newItem(total int64) *inventory.InventoryItem {
	return inventory.NewInventoryItem(uuid.New(), uuid.New(), valueobject.MustNewQuantity(total))
}

func holdCommand(item *inventory.InventoryItem, qty int64) HoldCommand {
	return HoldCommand{
		HoldID:       uuid.New(),
		SessionID:    item.SessionID,
		TicketTypeID: item.TicketTypeID,
		Quantity:     qty,
		ExpiresAt:    time.Now().Add(10 * time.Minute),
	}
}

func TestInventoryServiceHold(t *testing.T) {
	ctx := context.Background()

	t.Run("places hold and writes outbox in the same scope", func(t *testing.T) {
		f := newServiceFixture(t)
		item := newItem(100)
		cmd := holdCommand(item, 2)

		f.itemRepo.On("FindBySessionAndTicketTypeForUpdate", ctx, cmd.SessionID, cmd.TicketTypeID).Return(item, nil)
		f.holdRepo.On("FindByID", ctx, cmd.HoldID).Return(nil, shared.ErrHoldNotFound)
		f.itemRepo.On("Save", ctx, item).Return(nil)
		f.holdRepo.On("Save", ctx, mock.AnythingOfType("*inventory.Hold")).Return(nil)
		f.outboxRepo.On("Save", ctx, mock.MatchedBy(func(entries []*shared.OutboxEntry) bool {
			return len(entries) == 1 && entries[0].EventType == inventory.EventTypeHoldCreated
		})).Return(nil)

		result, err := f.service.Hold(ctx, cmd)
		require.NoError(t, err)

		assert.Equal(t, cmd.HoldID, result.HoldID)
		assert.Equal(t, int64(98), result.AvailableQuantity)
		f.outboxRepo.AssertExpectations(t)
		f.holdRepo.AssertExpectations(t)
	})

	t.Run("insufficient inventory returns available count", func(t *testing.T) {
		f := newServiceFixture(t)
		item := newItem(1)
		cmd := holdCommand(item, 5)

		f.itemRepo.On("FindBySessionAndTicketTypeForUpdate", ctx, cmd.SessionID, cmd.TicketTypeID).Return(item, nil)
		f.holdRepo.On("FindByID", ctx, cmd.HoldID).Return(nil, shared.ErrHoldNotFound)

		_, err := f.service.Hold(ctx, cmd)

		var insufficient *InsufficientInventoryError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, int64(1), insufficient.AvailableQuantity)
		assert.ErrorIs(t, err, shared.ErrInsufficientInventory)
		f.itemRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("replay of matching HELD hold is a no-op success", func(t *testing.T) {
		f := newServiceFixture(t)
		item := newItem(100)
		cmd := holdCommand(item, 2)
		existing := inventory.NewHold(cmd.HoldID, item.ID, valueobject.MustNewQuantity(2), cmd.ExpiresAt)

		f.itemRepo.On("FindBySessionAndTicketTypeForUpdate", ctx, cmd.SessionID, cmd.TicketTypeID).Return(item, nil)
		f.holdRepo.On("FindByID", ctx, cmd.HoldID).Return(existing, nil)

		result, err := f.service.Hold(ctx, cmd)
		require.NoError(t, err)

		assert.Equal(t, int64(100), result.AvailableQuantity, "no second decrement")
		f.itemRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.outboxRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("replay against terminal hold succeeds without modification", func(t *testing.T) {
		f := newServiceFixture(t)
		item := newItem(100)
		cmd := holdCommand(item, 2)
		released := inventory.NewHold(cmd.HoldID, item.ID, valueobject.MustNewQuantity(2), cmd.ExpiresAt)
		require.NoError(t, released.Release())

		f.itemRepo.On("FindBySessionAndTicketTypeForUpdate", ctx, cmd.SessionID, cmd.TicketTypeID).Return(item, nil)
		f.holdRepo.On("FindByID", ctx, cmd.HoldID).Return(released, nil)

		_, err := f.service.Hold(ctx, cmd)
		require.NoError(t, err)
		f.itemRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("same hold_id with different attributes rejected", func(t *testing.T) {
		f := newServiceFixture(t)
		item := newItem(100)
		cmd := holdCommand(item, 2)
		other := inventory.NewHold(cmd.HoldID, item.ID, valueobject.MustNewQuantity(7), cmd.ExpiresAt)

		f.itemRepo.On("FindBySessionAndTicketTypeForUpdate", ctx, cmd.SessionID, cmd.TicketTypeID).Return(item, nil)
		f.holdRepo.On("FindByID", ctx, cmd.HoldID).Return(other, nil)

		_, err := f.service.Hold(ctx, cmd)
		assert.Error(t, err)
	})

	t.Run("zero quantity rejected before touching the store", func(t *testing.T) {
		f := newServiceFixture(t)
		_, err := f.service.Hold(ctx, HoldCommand{HoldID: uuid.New(), Quantity: 0})
		assert.Error(t, err)
		f.itemRepo.AssertNotCalled(t, "FindBySessionAndTicketTypeForUpdate", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestInventoryServiceRelease(t *testing.T) {
	ctx := context.Background()

	t.Run("releases a live hold", func(t *testing.T) {
		f := newServiceFixture(t)
		item := newItem(10)
		hold, err := item.PlaceHold(uuid.New(), valueobject.MustNewQuantity(4), time.Now().Add(time.Minute))
		require.NoError(t, err)
		item.ClearDomainEvents()

		f.holdRepo.On("FindByID", ctx, hold.ID).Return(hold, nil)
		f.itemRepo.On("FindByIDForUpdate", ctx, item.ID).Return(item, nil)
		f.itemRepo.On("Save", ctx, item).Return(nil)
		f.holdRepo.On("Save", ctx, hold).Return(nil)

		require.NoError(t, f.service.Release(ctx, hold.ID))
		assert.True(t, hold.IsReleased())
		assert.Equal(t, int64(10), item.AvailableQuantity)
	})

	t.Run("release of released hold is no-op success", func(t *testing.T) {
		f := newServiceFixture(t)
		hold := inventory.NewHold(uuid.New(), uuid.New(), valueobject.MustNewQuantity(1), time.Now())
		require.NoError(t, hold.Release())

		f.holdRepo.On("FindByID", ctx, hold.ID).Return(hold, nil)

		require.NoError(t, f.service.Release(ctx, hold.ID))
		f.itemRepo.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
	})

	t.Run("release of committed hold is invalid", func(t *testing.T) {
		f := newServiceFixture(t)
		hold := inventory.NewHold(uuid.New(), uuid.New(), valueobject.MustNewQuantity(1), time.Now())
		require.NoError(t, hold.Commit())

		f.holdRepo.On("FindByID", ctx, hold.ID).Return(hold, nil)

		assert.ErrorIs(t, f.service.Release(ctx, hold.ID), shared.ErrInvalidStateTransition)
	})

	t.Run("missing hold surfaces HOLD_NOT_FOUND", func(t *testing.T) {
		f := newServiceFixture(t)
		id := uuid.New()
		f.holdRepo.On("FindByID", ctx, id).Return(nil, shared.ErrHoldNotFound)

		assert.ErrorIs(t, f.service.Release(ctx, id), shared.ErrHoldNotFound)
	})
}

func TestInventoryServiceCommit(t *testing.T) {
	ctx := context.Background()

	t.Run("commit changes status only", func(t *testing.T) {
		f := newServiceFixture(t)
		item := newItem(10)
		hold, err := item.PlaceHold(uuid.New(), valueobject.MustNewQuantity(4), time.Now().Add(time.Minute))
		require.NoError(t, err)
		item.ClearDomainEvents()

		f.holdRepo.On("FindByID", ctx, hold.ID).Return(hold, nil)
		f.itemRepo.On("FindByIDForUpdate", ctx, item.ID).Return(item, nil)
		f.itemRepo.On("Save", ctx, item).Return(nil)
		f.holdRepo.On("Save", ctx, hold).Return(nil)

		require.NoError(t, f.service.Commit(ctx, hold.ID))
		assert.True(t, hold.IsCommitted())
		assert.Equal(t, int64(6), item.AvailableQuantity, "no quantity change on commit")
	})

	t.Run("commit of committed hold is no-op success", func(t *testing.T) {
		f := newServiceFixture(t)
		hold := inventory.NewHold(uuid.New(), uuid.New(), valueobject.MustNewQuantity(1), time.Now())
		require.NoError(t, hold.Commit())

		f.holdRepo.On("FindByID", ctx, hold.ID).Return(hold, nil)

		require.NoError(t, f.service.Commit(ctx, hold.ID))
	})

	t.Run("commit of released hold is invalid", func(t *testing.T) {
		f := newServiceFixture(t)
		hold := inventory.NewHold(uuid.New(), uuid.New(), valueobject.MustNewQuantity(1), time.Now())
		require.NoError(t, hold.Release())

		f.holdRepo.On("FindByID", ctx, hold.ID).Return(hold, nil)

		assert.ErrorIs(t, f.service.Commit(ctx, hold.ID), shared.ErrInvalidStateTransition)
	})
}

func TestInventoryServiceEventEffects(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate event id skips the effect", func(t *testing.T) {
		f := newServiceFixture(t)
		eventID := uuid.New()
		holdID := uuid.New()

		f.consumedRepo.On("InsertIfAbsent", ctx, eventID, "order.confirmed").Return(false, nil)

		require.NoError(t, f.service.CommitFromEvent(ctx, eventID, "order.confirmed", holdID))
		f.holdRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("first delivery runs the effect", func(t *testing.T) {
		f := newServiceFixture(t)
		item := newItem(10)
		hold, err := item.PlaceHold(uuid.New(), valueobject.MustNewQuantity(2), time.Now().Add(time.Minute))
		require.NoError(t, err)
		item.ClearDomainEvents()
		eventID := uuid.New()

		f.consumedRepo.On("InsertIfAbsent", ctx, eventID, "order.confirmed").Return(true, nil)
		f.holdRepo.On("FindByID", ctx, hold.ID).Return(hold, nil)
		f.itemRepo.On("FindByIDForUpdate", ctx, item.ID).Return(item, nil)
		f.itemRepo.On("Save", ctx, item).Return(nil)
		f.holdRepo.On("Save", ctx, hold).Return(nil)

		require.NoError(t, f.service.CommitFromEvent(ctx, eventID, "order.confirmed", hold.ID))
		assert.True(t, hold.IsCommitted())
	})

	t.Run("release event for unknown hold is swallowed", func(t *testing.T) {
		f := newServiceFixture(t)
		eventID := uuid.New()
		holdID := uuid.New()

		f.consumedRepo.On("InsertIfAbsent", ctx, eventID, "hold.expired").Return(true, nil)
		f.holdRepo.On("FindByID", ctx, holdID).Return(nil, shared.ErrHoldNotFound)

		require.NoError(t, f.service.ReleaseFromEvent(ctx, eventID, "hold.expired", holdID))
	})
}

func TestInventoryServiceAvailability(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	item := newItem(100)
	_, err := item.PlaceHold(uuid.New(), valueobject.MustNewQuantity(2), time.Now().Add(time.Minute))
	require.NoError(t, err)

	f.itemRepo.On("FindBySessionAndTicketType", ctx, item.SessionID, item.TicketTypeID).Return(item, nil)

	result, err := f.service.Availability(ctx, item.SessionID, item.TicketTypeID)
	require.NoError(t, err)

	assert.Equal(t, int64(100), result.TotalQuantity)
	assert.Equal(t, int64(98), result.AvailableQuantity)
	assert.Equal(t, int64(2), result.HeldQuantity)
}
