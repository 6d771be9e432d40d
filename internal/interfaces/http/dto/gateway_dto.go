package dto

// GatewayHoldRequest is the body of POST /api/holds
type GatewayHoldRequest struct {
	SessionID     string `json:"session_id" binding:"required,uuid"`
	TicketTypeID  string `json:"ticket_type_id" binding:"required,uuid"`
	Quantity      int64  `json:"quantity" binding:"required,gt=0"`
	CustomerEmail string `json:"customer_email" binding:"required,email"`
}

// CheckoutRequest is the body of POST /api/checkout
type CheckoutRequest struct {
	HoldID         string             `json:"hold_id" binding:"required,uuid"`
	IdempotencyKey string             `json:"idempotency_key" binding:"required"`
	Email          string             `json:"email" binding:"required,email"`
	Items          []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}
