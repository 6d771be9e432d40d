package broker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/ticketing/backend/internal/domain/shared"
	"github.com/ticketing/backend/internal/infrastructure/event"
)

// retryCountHeader tracks how often a delivery has been retried. The
// count travels in the message headers so it survives broker restarts.
const retryCountHeader = "x-retry-count"

// HandlerFunc processes one decoded domain event. Returning an error
// triggers a redelivery, up to the consumer's retry limit.
type HandlerFunc func(ctx context.Context, evt shared.DomainEvent) error

// publishChannel is the slice of *amqp.Channel the consumer needs for
// republishing retried deliveries
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// ConsumerConfig holds configuration for one consumer queue
type ConsumerConfig struct {
	Queue      string
	Prefetch   int
	MaxRetries int
}

// Consumer consumes one queue with manual acks. Deliveries are decoded
// through the event serializer and dispatched by event type; a failed
// handler gets the delivery republished with an incremented retry
// count, and past the retry limit the delivery is dead-lettered.
type Consumer struct {
	conn       *Connection
	serializer *event.EventSerializer
	config     ConsumerConfig
	handlers   map[string]HandlerFunc
	logger     *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewConsumer creates a consumer for the given queue
func NewConsumer(conn *Connection, serializer *event.EventSerializer, config ConsumerConfig, logger *zap.Logger) *Consumer {
	if config.Prefetch <= 0 {
		config.Prefetch = 10
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	return &Consumer{
		conn:       conn,
		serializer: serializer,
		config:     config,
		handlers:   make(map[string]HandlerFunc),
		logger:     logger.With(zap.String("queue", config.Queue)),
	}
}

// Handle registers the handler for an event type. Deliveries of types
// without a handler are acked and dropped.
func (c *Consumer) Handle(eventType string, handler HandlerFunc) {
	c.handlers[eventType] = handler
}

// Start begins consuming in the background, reconnecting after drops
func (c *Consumer) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.consumeLoop(ctx)

	c.logger.Info("consumer started",
		zap.Int("prefetch", c.config.Prefetch),
		zap.Int("max_retries", c.config.MaxRetries),
	)
	return nil
}

// Stop stops consuming and waits for in-flight deliveries
func (c *Consumer) Stop(ctx context.Context) error {
	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("consumer stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// consumeLoop keeps a consume session open, reconnecting after drops
func (c *Consumer) consumeLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		if ctx.Err() != nil {
			return
		}

		if err := c.consumeSession(ctx); err != nil {
			c.logger.Warn("consume session ended", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(2 * time.Second):
		}
	}
}

// consumeSession opens a channel and processes deliveries until the
// channel drops or the context is cancelled
func (c *Consumer) consumeSession(ctx context.Context) error {
	ch, err := c.conn.Channel(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(c.config.Prefetch, 0, false); err != nil {
		return err
	}

	deliveries, err := ch.Consume(c.config.Queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return amqp.ErrClosed
			}
			c.processDelivery(ctx, ch, d)
		}
	}
}

// processDelivery decodes and dispatches one delivery
func (c *Consumer) processDelivery(ctx context.Context, ch publishChannel, d amqp.Delivery) {
	var env event.Envelope
	if err := json.Unmarshal(d.Body, &env); err != nil {
		// the body will never parse, no point retrying
		c.logger.Error("malformed message, dead-lettering",
			zap.String("message_id", d.MessageId),
			zap.Error(err),
		)
		c.nack(d)
		return
	}

	if !c.serializer.IsRegistered(env.EventType) {
		c.logger.Warn("dropping message of unknown event type",
			zap.String("event_type", env.EventType),
			zap.String("event_id", env.EventID.String()),
		)
		c.ack(d)
		return
	}

	evt, err := c.serializer.Deserialize(d.Body)
	if err != nil {
		c.logger.Error("failed to decode event, dead-lettering",
			zap.String("event_type", env.EventType),
			zap.String("event_id", env.EventID.String()),
			zap.Error(err),
		)
		c.nack(d)
		return
	}

	handler, ok := c.handlers[evt.EventType()]
	if !ok {
		c.logger.Debug("no handler for event type, dropping",
			zap.String("event_type", evt.EventType()),
		)
		c.ack(d)
		return
	}

	if err := handler(ctx, evt); err != nil {
		c.logger.Error("handler failed",
			zap.String("event_type", evt.EventType()),
			zap.String("event_id", evt.EventID().String()),
			zap.Error(err),
		)
		c.retry(ctx, ch, d)
		return
	}

	c.ack(d)
}

// retry republishes the delivery with an incremented retry count, or
// dead-letters it once the retry limit is reached
func (c *Consumer) retry(ctx context.Context, ch publishChannel, d amqp.Delivery) {
	retries := deliveryRetryCount(d)
	if retries >= int64(c.config.MaxRetries) {
		c.logger.Warn("retry limit reached, dead-lettering",
			zap.String("message_id", d.MessageId),
			zap.Int64("retries", retries),
		)
		c.nack(d)
		return
	}

	headers := d.Headers
	if headers == nil {
		headers = amqp.Table{}
	}
	headers[retryCountHeader] = retries + 1

	// republish straight to the queue through the default exchange so
	// other queues bound to the same routing key don't see it again
	err := ch.PublishWithContext(ctx,
		"",
		c.config.Queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  d.ContentType,
			DeliveryMode: amqp.Persistent,
			MessageId:    d.MessageId,
			Headers:      headers,
			Body:         d.Body,
		},
	)
	if err != nil {
		c.logger.Error("failed to republish for retry, requeueing", zap.Error(err))
		if nackErr := d.Nack(false, true); nackErr != nil {
			c.logger.Error("failed to requeue delivery", zap.Error(nackErr))
		}
		return
	}

	c.ack(d)
}

// deliveryRetryCount reads the retry count header from a delivery
func deliveryRetryCount(d amqp.Delivery) int64 {
	if d.Headers == nil {
		return 0
	}
	switch v := d.Headers[retryCountHeader].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	default:
		return 0
	}
}

func (c *Consumer) ack(d amqp.Delivery) {
	if err := d.Ack(false); err != nil {
		c.logger.Error("failed to ack delivery", zap.Error(err))
	}
}

// nack rejects without requeue, which routes the delivery to the DLQ
func (c *Consumer) nack(d amqp.Delivery) {
	if err := d.Nack(false, false); err != nil {
		c.logger.Error("failed to nack delivery", zap.Error(err))
	}
}
