package broker

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// AMQPPublisher publishes messages to the topic exchange. A publish
// failure is returned to the caller unretried; the outbox relay polls
// again and the entry goes out on a later batch.
type AMQPPublisher struct {
	conn     *Connection
	exchange string
	logger   *zap.Logger

	mu sync.Mutex
	ch *amqp.Channel
}

// NewAMQPPublisher creates a publisher on the given exchange
func NewAMQPPublisher(conn *Connection, exchange string, logger *zap.Logger) *AMQPPublisher {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &AMQPPublisher{
		conn:     conn,
		exchange: exchange,
		logger:   logger,
	}
}

// Publish sends a persistent message under the routing key. The message
// id carries the event id so consumers can dedup redeliveries.
func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, messageID uuid.UUID, body []byte) error {
	ch, err := p.channel(ctx)
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    messageID.String(),
			Body:         body,
		},
	)
	if err != nil {
		p.dropChannel()
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

// channel returns the cached channel, opening a fresh one if needed
func (p *AMQPPublisher) channel(ctx context.Context) (*amqp.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}

	ch, err := p.conn.Channel(ctx)
	if err != nil {
		return nil, err
	}
	p.ch = ch
	return ch, nil
}

// dropChannel discards the cached channel after a publish failure
func (p *AMQPPublisher) dropChannel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
}

// Close closes the publisher's channel
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil {
		return nil
	}
	err := p.ch.Close()
	p.ch = nil
	return err
}
