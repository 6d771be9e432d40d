package reservation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ticketing/backend/internal/domain/shared"
)

// ExpirySweeper periodically retires overdue hold mirrors. Each sweep
// locks a batch of overdue ACTIVE rows, transitions them to EXPIRED and
// writes one hold.expired outbox row per hold, all in one transaction.
// The inventory service performs the actual release when the event
// arrives.
type ExpirySweeper struct {
	scope     TransactionScope
	interval  time.Duration
	batchSize int
	logger    *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewExpirySweeper creates a new ExpirySweeper
func NewExpirySweeper(scope TransactionScope, interval time.Duration, batchSize int, logger *zap.Logger) *ExpirySweeper {
	return &ExpirySweeper{
		scope:     scope,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Start launches the sweep loop. It runs until Stop is called or the
// parent context is cancelled.
func (s *ExpirySweeper) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.run(ctx)
	s.logger.Info("expiry sweeper started",
		zap.Duration("interval", s.interval),
		zap.Int("batch_size", s.batchSize))
}

// Stop terminates the sweep loop and waits for an in-flight sweep to finish
func (s *ExpirySweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.logger.Info("expiry sweeper stopped")
}

func (s *ExpirySweeper) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.SweepOnce(ctx); err != nil {
				s.logger.Error("expiry sweep failed", zap.Error(err))
			}
		}
	}
}

// SweepOnce runs a single sweep pass and returns after the batch is
// committed. Exposed for tests and manual triggering.
func (s *ExpirySweeper) SweepOnce(ctx context.Context) error {
	var scanned, expired, failed int
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		holds, err := repos.Holds().FindOverdue(ctx, time.Now(), s.batchSize)
		if err != nil {
			return fmt.Errorf("find overdue holds: %w", err)
		}
		scanned = len(holds)

		for _, hold := range holds {
			if err := hold.Expire(); err != nil {
				failed++
				s.logger.Warn("hold not expirable",
					zap.String("hold_id", hold.ID.String()),
					zap.Error(err))
				continue
			}
			if err := repos.Holds().Save(ctx, hold); err != nil {
				return fmt.Errorf("save expired hold %s: %w", hold.ID, err)
			}
			entries, err := shared.OutboxEntriesFromEvents(hold.GetDomainEvents()...)
			if err != nil {
				return err
			}
			if err := repos.Outbox().Save(ctx, entries...); err != nil {
				return fmt.Errorf("save outbox entries: %w", err)
			}
			hold.ClearDomainEvents()
			expired++
		}
		return nil
	})
	if err != nil {
		return err
	}

	if scanned > 0 {
		s.logger.Info("expiry sweep completed",
			zap.Int("scanned", scanned),
			zap.Int("expired", expired),
			zap.Int("failed", failed))
	}
	return nil
}
