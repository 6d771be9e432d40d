package broker

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Default exchange names. Every event is published to the topic
// exchange with its event type as routing key; failed deliveries are
// routed by the dead letter exchange to a per-queue DLQ.
const (
	DefaultExchange           = "ticketing.events"
	DefaultDeadLetterExchange = "ticketing.dlx"
	DefaultDeadLetterSuffix   = ".dlq"
)

// QueueSpec declares one consumer queue and the routing keys it binds
// to on the topic exchange
type QueueSpec struct {
	Name        string
	RoutingKeys []string
}

// Topology describes the exchanges and queues a service needs
type Topology struct {
	Exchange           string
	DeadLetterExchange string
	DeadLetterSuffix   string
	Queues             []QueueSpec
}

// Declare creates the exchanges, queues, DLQs and bindings. Declaring
// is idempotent, so every service declares the full topology it uses on
// startup regardless of which service got there first.
func (t Topology) Declare(ch *amqp.Channel) error {
	exchange := t.Exchange
	if exchange == "" {
		exchange = DefaultExchange
	}
	dlx := t.DeadLetterExchange
	if dlx == "" {
		dlx = DefaultDeadLetterExchange
	}
	suffix := t.DeadLetterSuffix
	if suffix == "" {
		suffix = DefaultDeadLetterSuffix
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	if err := ch.ExchangeDeclare(dlx, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare dead letter exchange %s: %w", dlx, err)
	}

	for _, q := range t.Queues {
		dlqName := q.Name + suffix

		if _, err := ch.QueueDeclare(dlqName, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare dead letter queue %s: %w", dlqName, err)
		}
		// dead letters carry the queue name as routing key
		if err := ch.QueueBind(dlqName, q.Name, dlx, false, nil); err != nil {
			return fmt.Errorf("bind dead letter queue %s: %w", dlqName, err)
		}

		args := amqp.Table{
			"x-dead-letter-exchange":    dlx,
			"x-dead-letter-routing-key": q.Name,
		}
		if _, err := ch.QueueDeclare(q.Name, true, false, false, false, args); err != nil {
			return fmt.Errorf("declare queue %s: %w", q.Name, err)
		}
		for _, key := range q.RoutingKeys {
			if err := ch.QueueBind(q.Name, key, exchange, false, nil); err != nil {
				return fmt.Errorf("bind queue %s to %s: %w", q.Name, key, err)
			}
		}
	}
	return nil
}
