package broker

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Connection manages a single AMQP connection with reconnect support.
// Channels are cheap; callers open one per publisher or consumer and
// reopen it through Channel() after a drop.
type Connection struct {
	url              string
	reconnectDelay   time.Duration
	maxReconnectWait time.Duration
	logger           *zap.Logger

	mu   sync.Mutex
	conn *amqp.Connection
}

// NewConnection creates an unconnected AMQP connection manager
func NewConnection(url string, reconnectDelay, maxReconnectWait time.Duration, logger *zap.Logger) *Connection {
	if reconnectDelay <= 0 {
		reconnectDelay = time.Second
	}
	if maxReconnectWait < reconnectDelay {
		maxReconnectWait = 30 * time.Second
	}
	return &Connection{
		url:              url,
		reconnectDelay:   reconnectDelay,
		maxReconnectWait: maxReconnectWait,
		logger:           logger,
	}
}

// Connect dials the broker, retrying with capped backoff until the
// context is cancelled
func (c *Connection) Connect(ctx context.Context) error {
	backoff := c.reconnectDelay
	for {
		conn, err := amqp.Dial(c.url)
		if err == nil {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
			c.logger.Info("connected to broker")
			return nil
		}

		c.logger.Warn("broker dial failed",
			zap.Error(err),
			zap.Duration("retry_in", backoff),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < c.maxReconnectWait {
			backoff *= 2
			if backoff > c.maxReconnectWait {
				backoff = c.maxReconnectWait
			}
		}
	}
}

// Channel opens a channel, reconnecting first if the connection is gone
func (c *Connection) Channel(ctx context.Context) (*amqp.Channel, error) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil || conn.IsClosed() {
		if err := c.Connect(ctx); err != nil {
			return nil, fmt.Errorf("reconnect: %w", err)
		}
		c.mu.Lock()
		conn = c.conn
		c.mu.Unlock()
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	return ch, nil
}

// Close closes the underlying connection
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil || c.conn.IsClosed() {
		return nil
	}
	return c.conn.Close()
}
