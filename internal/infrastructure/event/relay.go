package event

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ticketing/backend/internal/domain/shared"
)

// Publisher sends a message body to the broker under a routing key.
// The broker implementation sets the message id on the AMQP properties
// so consumers can dedup on it.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, messageID uuid.UUID, body []byte) error
}

// RelayConfig holds configuration for the outbox relay
type RelayConfig struct {
	BatchSize        int
	PollInterval     time.Duration
	CleanupEnabled   bool
	CleanupRetention time.Duration
	CleanupInterval  time.Duration
}

// DefaultRelayConfig returns default configuration
func DefaultRelayConfig() RelayConfig {
	return RelayConfig{
		BatchSize:        100,
		PollInterval:     5 * time.Second,
		CleanupEnabled:   true,
		CleanupRetention: 7 * 24 * time.Hour,
		CleanupInterval:  1 * time.Hour,
	}
}

// OutboxRelay polls the outbox for unpublished entries and publishes
// them to the broker. A failed publish leaves the entry unpublished, so
// the next poll retries it; entries are never dropped. Delivery is
// therefore at-least-once and consumers must dedup on event id.
type OutboxRelay struct {
	repo       shared.OutboxRepository
	publisher  Publisher
	serializer *EventSerializer
	config     RelayConfig
	logger     *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOutboxRelay creates a new outbox relay
func NewOutboxRelay(
	repo shared.OutboxRepository,
	publisher Publisher,
	serializer *EventSerializer,
	config RelayConfig,
	logger *zap.Logger,
) *OutboxRelay {
	return &OutboxRelay{
		repo:       repo,
		publisher:  publisher,
		serializer: serializer,
		config:     config,
		logger:     logger,
	}
}

// Start starts the background polling
func (r *OutboxRelay) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go r.pollLoop(ctx)

	if r.config.CleanupEnabled {
		r.wg.Add(1)
		go r.cleanupLoop(ctx)
	}

	r.logger.Info("outbox relay started",
		zap.Int("batch_size", r.config.BatchSize),
		zap.Duration("poll_interval", r.config.PollInterval),
	)

	return nil
}

// Stop gracefully stops the relay
func (r *OutboxRelay) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("outbox relay stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// pollLoop is the main polling loop
func (r *OutboxRelay) pollLoop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.RelayBatch(ctx)
		}
	}
}

// RelayBatch publishes one batch of unpublished entries in creation
// order. Returns the number of entries published.
func (r *OutboxRelay) RelayBatch(ctx context.Context) int {
	entries, err := r.repo.FindUnpublished(ctx, r.config.BatchSize)
	if err != nil {
		r.logger.Error("failed to find unpublished entries", zap.Error(err))
		return 0
	}

	published := 0
	for _, entry := range entries {
		if r.relayEntry(ctx, entry) {
			published++
		}
	}
	return published
}

// relayEntry publishes a single outbox entry
func (r *OutboxRelay) relayEntry(ctx context.Context, entry *shared.OutboxEntry) bool {
	body, err := r.serializer.Serialize(entry)
	if err != nil {
		r.logger.Error("failed to serialize entry",
			zap.String("event_id", entry.EventID.String()),
			zap.String("event_type", entry.EventType),
			zap.Error(err),
		)
		r.markFailed(ctx, entry, err)
		return false
	}

	if err := r.publisher.Publish(ctx, entry.EventType, entry.EventID, body); err != nil {
		r.logger.Error("failed to publish event",
			zap.String("event_id", entry.EventID.String()),
			zap.String("event_type", entry.EventType),
			zap.Int("retry_count", entry.RetryCount),
			zap.Error(err),
		)
		r.markFailed(ctx, entry, err)
		return false
	}

	entry.MarkPublished()
	if err := r.repo.Update(ctx, entry); err != nil {
		// The message is out but the flag didn't stick. The next poll
		// republishes and consumers dedup on event id.
		r.logger.Error("failed to mark entry as published",
			zap.String("event_id", entry.EventID.String()),
			zap.Error(err),
		)
		return false
	}

	r.logger.Debug("event published",
		zap.String("event_id", entry.EventID.String()),
		zap.String("event_type", entry.EventType),
	)
	return true
}

// markFailed records the failure, keeping the entry unpublished
func (r *OutboxRelay) markFailed(ctx context.Context, entry *shared.OutboxEntry, cause error) {
	entry.MarkFailed(cause.Error())
	if err := r.repo.Update(ctx, entry); err != nil {
		r.logger.Error("failed to record publish failure",
			zap.String("event_id", entry.EventID.String()),
			zap.Error(err),
		)
	}
}

// cleanupLoop periodically prunes old published entries
func (r *OutboxRelay) cleanupLoop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.cleanup(ctx)
		}
	}
}

// cleanup removes published entries past the retention window
func (r *OutboxRelay) cleanup(ctx context.Context) {
	cutoff := time.Now().Add(-r.config.CleanupRetention)
	deleted, err := r.repo.DeletePublishedOlderThan(ctx, cutoff)
	if err != nil {
		r.logger.Error("failed to clean up published entries", zap.Error(err))
		return
	}

	if deleted > 0 {
		r.logger.Info("cleaned up published outbox entries",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff),
		)
	}
}
