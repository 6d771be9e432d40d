package event

import (
	"github.com/ticketing/backend/internal/domain/inventory"
	"github.com/ticketing/backend/internal/domain/order"
	"github.com/ticketing/backend/internal/domain/reservation"
)

// NewDomainEventSerializer returns a serializer with every event type
// of the platform registered. All services share this registry so any
// of them can decode any message on the exchange.
func NewDomainEventSerializer() *EventSerializer {
	s := NewEventSerializer()
	s.Register(inventory.EventTypeHoldCreated, &inventory.HoldCreatedEvent{})
	s.Register(reservation.EventTypeHoldExpired, &reservation.HoldExpiredEvent{})
	s.Register(order.EventTypeOrderConfirmed, &order.OrderConfirmedEvent{})
	s.Register(order.EventTypeOrderCancelled, &order.OrderCancelledEvent{})
	return s
}
