package valueobject

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
)

// Quantity is a value object representing a count of seats or tickets.
// Seats are indivisible, so the value is always a whole number.
// It is immutable - all operations return new Quantity instances.
type Quantity struct {
	value int64
}

// NewQuantity creates a new Quantity. The value must be positive.
func NewQuantity(value int64) (Quantity, error) {
	if value <= 0 {
		return Quantity{}, errors.New("quantity must be positive")
	}
	return Quantity{value: value}, nil
}

// MustNewQuantity creates a Quantity and panics on error
func MustNewQuantity(value int64) Quantity {
	q, err := NewQuantity(value)
	if err != nil {
		panic(err)
	}
	return q
}

// ZeroQuantity returns a zero quantity
func ZeroQuantity() Quantity {
	return Quantity{}
}

// Value64 returns the quantity as an int64
func (q Quantity) Value64() int64 {
	return q.value
}

// IsZero returns true if the quantity is zero
func (q Quantity) IsZero() bool {
	return q.value == 0
}

// Add returns a new Quantity with the sum of both quantities
func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{value: q.value + other.value}
}

// Subtract returns a new Quantity with the difference.
// Returns error if the result would be negative.
func (q Quantity) Subtract(other Quantity) (Quantity, error) {
	if other.value > q.value {
		return Quantity{}, errors.New("resulting quantity would be negative")
	}
	return Quantity{value: q.value - other.value}, nil
}

// LessThan returns true if this quantity is less than the other
func (q Quantity) LessThan(other Quantity) bool {
	return q.value < other.value
}

// Equals returns true if both quantities are equal
func (q Quantity) Equals(other Quantity) bool {
	return q.value == other.value
}

// String returns a string representation of the Quantity
func (q Quantity) String() string {
	return strconv.FormatInt(q.value, 10)
}

// Value implements driver.Valuer for database storage
func (q Quantity) Value() (driver.Value, error) {
	return q.value, nil
}

// Scan implements sql.Scanner for database retrieval
func (q *Quantity) Scan(value any) error {
	if value == nil {
		q.value = 0
		return nil
	}

	switch v := value.(type) {
	case int64:
		q.value = v
	case int:
		q.value = int64(v)
	case []byte:
		parsed, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid quantity value: %w", err)
		}
		q.value = parsed
	default:
		return fmt.Errorf("cannot scan %T into Quantity", value)
	}
	return nil
}
