package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ticketing/backend/internal/domain/catalog"
)

// EventDTO is the catalog read model for an event
type EventDTO struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Venue       string       `json:"venue"`
	Sessions    []SessionDTO `json:"sessions,omitempty"`
}

// SessionDTO is one occurrence of an event
type SessionDTO struct {
	ID          uuid.UUID       `json:"id"`
	StartsAt    time.Time       `json:"starts_at"`
	EndsAt      time.Time       `json:"ends_at"`
	TicketTypes []TicketTypeDTO `json:"ticket_types,omitempty"`
}

// TicketTypeDTO is a priced tier within a session
type TicketTypeDTO struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Capacity int64           `json:"capacity"`
}

// ToEventDTO converts a catalog event to its read model
func ToEventDTO(e *catalog.Event) *EventDTO {
	dto := &EventDTO{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Venue:       e.Venue,
	}
	for _, session := range e.Sessions {
		s := SessionDTO{
			ID:       session.ID,
			StartsAt: session.StartsAt,
			EndsAt:   session.EndsAt,
		}
		for _, tt := range session.TicketTypes {
			s.TicketTypes = append(s.TicketTypes, TicketTypeDTO{
				ID:       tt.ID,
				Name:     tt.Name,
				Price:    tt.Price,
				Capacity: tt.Capacity,
			})
		}
		dto.Sessions = append(dto.Sessions, s)
	}
	return dto
}
