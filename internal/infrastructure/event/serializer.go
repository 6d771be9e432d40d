package event

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ticketing/backend/internal/domain/shared"
)

// Envelope is the wire format of a broker message. The metadata comes
// from the outbox entry's columns; payload holds the event's typed
// fields verbatim.
type Envelope struct {
	EventID       uuid.UUID       `json:"event_id"`
	EventType     string          `json:"event_type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	Payload       json.RawMessage `json:"payload"`
}

// EventSerializer converts between outbox entries and broker message
// bodies. Deserialization needs a registered Go type per event type.
type EventSerializer struct {
	mu       sync.RWMutex
	registry map[string]reflect.Type // eventType -> Go type
}

// NewEventSerializer creates an empty event serializer
func NewEventSerializer() *EventSerializer {
	return &EventSerializer{
		registry: make(map[string]reflect.Type),
	}
}

// Register registers an event type for deserialization.
// The eventType must match what EventType() returns on the event.
func (s *EventSerializer) Register(eventType string, eventInstance shared.DomainEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := reflect.TypeOf(eventInstance)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	s.registry[eventType] = t
}

// Serialize builds the wire envelope for an outbox entry
func (s *EventSerializer) Serialize(entry *shared.OutboxEntry) ([]byte, error) {
	env := Envelope{
		EventID:       entry.EventID,
		EventType:     entry.EventType,
		OccurredAt:    entry.OccurredAt,
		AggregateID:   entry.AggregateID,
		AggregateType: entry.AggregateType,
		Payload:       json.RawMessage(entry.Payload),
	}
	return json.Marshal(env)
}

// Deserialize parses a wire envelope back into a domain event. The
// payload is unmarshalled into the registered type and the event's
// base is restored from the envelope metadata.
func (s *EventSerializer) Deserialize(data []byte) (shared.DomainEvent, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}

	s.mu.RLock()
	t, ok := s.registry[env.EventType]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", env.EventType)
	}

	eventPtr := reflect.New(t)
	if len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, eventPtr.Interface()); err != nil {
			return nil, fmt.Errorf("unmarshal %s payload: %w", env.EventType, err)
		}
	}

	base := shared.RestoredBaseDomainEvent(env.EventID, env.EventType, env.AggregateType, env.AggregateID, env.OccurredAt)
	if err := restoreBase(eventPtr.Elem(), base); err != nil {
		return nil, fmt.Errorf("restore %s: %w", env.EventType, err)
	}

	event, ok := eventPtr.Interface().(shared.DomainEvent)
	if !ok {
		return nil, fmt.Errorf("type registered for %s does not implement DomainEvent", env.EventType)
	}
	return event, nil
}

// restoreBase sets the embedded BaseDomainEvent field of an event struct
func restoreBase(v reflect.Value, base shared.BaseDomainEvent) error {
	baseType := reflect.TypeOf(base)
	for i := 0; i < v.NumField(); i++ {
		field := v.Type().Field(i)
		if field.Anonymous && field.Type == baseType {
			v.Field(i).Set(reflect.ValueOf(base))
			return nil
		}
	}
	return fmt.Errorf("no embedded base event field on %s", v.Type())
}

// IsRegistered checks if an event type is registered
func (s *EventSerializer) IsRegistered(eventType string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.registry[eventType]
	return ok
}

// RegisteredTypes returns all registered event types
func (s *EventSerializer) RegisteredTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	types := make([]string, 0, len(s.registry))
	for t := range s.registry {
		types = append(types, t)
	}
	return types
}
