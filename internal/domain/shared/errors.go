package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound               = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists          = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput           = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict    = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidStateTransition = NewDomainError("INVALID_STATE_TRANSITION", "Operation not allowed in current state")
	ErrInsufficientInventory  = NewDomainError("INSUFFICIENT_INVENTORY", "Insufficient inventory available")
	ErrHoldNotFound           = NewDomainError("HOLD_NOT_FOUND", "Hold not found")
	ErrOrderNotFound          = NewDomainError("ORDER_NOT_FOUND", "Order not found")
	ErrPaymentFailed          = NewDomainError("PAYMENT_FAILED", "Payment was declined")
	ErrInventoryUnavailable   = NewDomainError("INVENTORY_SERVICE_UNAVAILABLE", "Inventory service is unavailable")
)
