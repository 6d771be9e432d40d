package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ticketing/backend/internal/domain/shared"
)

// The catalog is a read-only surface for the ticketing cores: events,
// their sessions, and the ticket types sold per session. Rows are
// seeded by migrations or an external admin tool; this service never
// writes them.

// Event is a published event in the catalog
type Event struct {
	shared.BaseEntity
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	Venue       string    `gorm:"type:varchar(255);not null"`
	Sessions    []Session `gorm:"foreignKey:EventID"`
}

// TableName returns the table name for GORM
func (Event) TableName() string {
	return "events"
}

// Session is one occurrence of an event
type Session struct {
	shared.BaseEntity
	EventID     uuid.UUID    `gorm:"type:uuid;not null;index"`
	StartsAt    time.Time    `gorm:"not null"`
	EndsAt      time.Time    `gorm:"not null"`
	TicketTypes []TicketType `gorm:"foreignKey:SessionID"`
}

// TableName returns the table name for GORM
func (Session) TableName() string {
	return "sessions"
}

// TicketType is a priced tier of seats within a session. Capacity here
// is informational; the inventory service owns the authoritative count.
type TicketType struct {
	shared.BaseEntity
	SessionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"type:varchar(100);not null"`
	Price     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Capacity  int64           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TicketType) TableName() string {
	return "ticket_types"
}
