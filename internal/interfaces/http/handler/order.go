package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apporder "github.com/ticketing/backend/internal/application/order"
	"github.com/ticketing/backend/internal/interfaces/http/dto"
)

// OrderHandler handles the order service endpoints
type OrderHandler struct {
	BaseHandler
	service *apporder.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(service *apporder.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.Create)
		orders.GET("/:id", h.Get)
		orders.POST("/:id/confirm", h.Confirm)
		orders.POST("/:id/cancel", h.Cancel)
	}
}

// Create handles POST /orders. The Idempotency-Key header makes the
// operation replayable: a new order answers 201, a replay answers 200
// with the previously created order.
func (h *OrderHandler) Create(c *gin.Context) {
	idempotencyKey := c.GetHeader("Idempotency-Key")
	if idempotencyKey == "" {
		h.BadRequest(c, "Idempotency-Key header is required")
		return
	}

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	items := make([]apporder.OrderItemCommand, 0, len(req.Items))
	for _, item := range req.Items {
		unitPrice, err := decimal.NewFromString(item.UnitPrice)
		if err != nil {
			h.BadRequest(c, "invalid unit_price: "+item.UnitPrice)
			return
		}
		items = append(items, apporder.OrderItemCommand{
			SessionID:    uuid.MustParse(item.SessionID),
			TicketTypeID: uuid.MustParse(item.TicketTypeID),
			Quantity:     item.Quantity,
			UnitPrice:    unitPrice,
		})
	}

	cmd := apporder.CreateOrderCommand{
		IdempotencyKey: idempotencyKey,
		CustomerEmail:  req.CustomerEmail,
		HoldID:         uuid.MustParse(req.HoldID),
		Items:          items,
	}

	result, created, err := h.service.Create(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if created {
		h.Created(c, result)
		return
	}
	h.Success(c, result)
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid order id")
		return
	}

	result, err := h.service.Get(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Confirm handles POST /orders/:id/confirm. A declined charge answers
// 402 with PAYMENT_FAILED and the order stays pending.
func (h *OrderHandler) Confirm(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid order id")
		return
	}

	result, err := h.service.Confirm(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// Cancel handles POST /orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid order id")
		return
	}

	result, err := h.service.Cancel(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
