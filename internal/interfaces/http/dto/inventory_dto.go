package dto

import "time"

// HoldRequest is the body of POST /inventory/hold. The hold id is
// assigned by the caller so that retries of the same logical hold are
// idempotent.
type HoldRequest struct {
	HoldID       string    `json:"hold_id" binding:"required,uuid"`
	SessionID    string    `json:"session_id" binding:"required,uuid"`
	TicketTypeID string    `json:"ticket_type_id" binding:"required,uuid"`
	Quantity     int64     `json:"quantity" binding:"required,gt=0"`
	ExpiresAt    time.Time `json:"expires_at" binding:"required"`
}

// HoldReferenceRequest is the body of POST /inventory/release and
// POST /inventory/commit
type HoldReferenceRequest struct {
	HoldID string `json:"hold_id" binding:"required,uuid"`
}

// HoldResponse is the body of a successful hold. AvailableQuantity is
// the item's availability after the hold was applied.
type HoldResponse struct {
	Success           bool   `json:"success"`
	HoldID            string `json:"hold_id"`
	AvailableQuantity int64  `json:"available_quantity"`
}

// InsufficientInventoryResponse is the 409 body of a rejected hold
type InsufficientInventoryResponse struct {
	Success           bool       `json:"success"`
	Error             *ErrorInfo `json:"error"`
	AvailableQuantity int64      `json:"available_quantity"`
}
