package dto

import "net/http"

// Error codes shared with the domain layer. The codes appear verbatim
// in response bodies, so clients can branch on them without parsing
// messages.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeNotFound     = "NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeNotFound:     http.StatusNotFound,

	"ALREADY_EXISTS":           http.StatusConflict,
	"CONCURRENCY_CONFLICT":     http.StatusConflict,
	"INVALID_STATE_TRANSITION": http.StatusBadRequest,

	"INSUFFICIENT_INVENTORY": http.StatusConflict,
	"HOLD_NOT_FOUND":         http.StatusNotFound,
	"ORDER_NOT_FOUND":        http.StatusNotFound,

	"PAYMENT_FAILED":                http.StatusPaymentRequired,
	"INVENTORY_SERVICE_UNAVAILABLE": http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
