package valueobject

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

// EmailAddress is a value object representing a validated email address.
// The address is normalized to lower case on construction.
type EmailAddress struct {
	value string
}

// NewEmailAddress creates a new EmailAddress after validating the format
func NewEmailAddress(value string) (EmailAddress, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return EmailAddress{}, errors.New("email cannot be empty")
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return EmailAddress{}, fmt.Errorf("invalid email address: %q", value)
	}
	return EmailAddress{value: strings.ToLower(trimmed)}, nil
}

// MustNewEmailAddress creates an EmailAddress and panics on error
func MustNewEmailAddress(value string) EmailAddress {
	e, err := NewEmailAddress(value)
	if err != nil {
		panic(err)
	}
	return e
}

// String returns the normalized address
func (e EmailAddress) String() string {
	return e.value
}

// IsZero returns true if the address is unset
func (e EmailAddress) IsZero() bool {
	return e.value == ""
}

// Equals returns true if both addresses are equal
func (e EmailAddress) Equals(other EmailAddress) bool {
	return e.value == other.value
}

// MarshalJSON implements json.Marshaler
func (e EmailAddress) MarshalJSON() ([]byte, error) {
	return []byte(`"` + e.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (e *EmailAddress) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := NewEmailAddress(s)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Value implements driver.Valuer for database storage
func (e EmailAddress) Value() (driver.Value, error) {
	return e.value, nil
}

// Scan implements sql.Scanner for database retrieval
func (e *EmailAddress) Scan(value any) error {
	if value == nil {
		e.value = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		e.value = v
	case []byte:
		e.value = string(v)
	default:
		return fmt.Errorf("cannot scan %T into EmailAddress", value)
	}
	return nil
}
