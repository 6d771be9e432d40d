package dto

// CreateOrderRequest is the body of POST /orders. The idempotency key
// arrives in the Idempotency-Key header, not in the body.
type CreateOrderRequest struct {
	CustomerEmail string             `json:"customer_email" binding:"required,email"`
	HoldID        string             `json:"hold_id" binding:"required,uuid"`
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// OrderItemRequest is one line of a new order
type OrderItemRequest struct {
	SessionID    string `json:"session_id" binding:"required,uuid"`
	TicketTypeID string `json:"ticket_type_id" binding:"required,uuid"`
	Quantity     int64  `json:"quantity" binding:"required,gt=0"`
	UnitPrice    string `json:"unit_price" binding:"required"`
}
