package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appres "github.com/ticketing/backend/internal/application/reservation"
	"github.com/ticketing/backend/internal/interfaces/http/dto"
)

// GatewayHandler handles the public reservation endpoints
type GatewayHandler struct {
	BaseHandler
	service *appres.ReservationService
}

// NewGatewayHandler creates a new GatewayHandler
func NewGatewayHandler(service *appres.ReservationService) *GatewayHandler {
	return &GatewayHandler{service: service}
}

// RegisterRoutes registers gateway routes
func (h *GatewayHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/holds", h.CreateHold)
	rg.POST("/checkout", h.Checkout)
}

// CreateHold handles POST /api/holds
func (h *GatewayHandler) CreateHold(c *gin.Context) {
	var req dto.GatewayHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := appres.CreateHoldCommand{
		SessionID:     uuid.MustParse(req.SessionID),
		TicketTypeID:  uuid.MustParse(req.TicketTypeID),
		Quantity:      req.Quantity,
		CustomerEmail: req.CustomerEmail,
	}

	result, err := h.service.CreateHold(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Checkout handles POST /api/checkout
func (h *GatewayHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	items := make([]appres.CheckoutItem, 0, len(req.Items))
	for _, item := range req.Items {
		unitPrice, err := decimal.NewFromString(item.UnitPrice)
		if err != nil {
			h.BadRequest(c, "invalid unit_price: "+item.UnitPrice)
			return
		}
		items = append(items, appres.CheckoutItem{
			SessionID:    uuid.MustParse(item.SessionID),
			TicketTypeID: uuid.MustParse(item.TicketTypeID),
			Quantity:     item.Quantity,
			UnitPrice:    unitPrice,
		})
	}

	cmd := appres.CheckoutCommand{
		HoldID:         uuid.MustParse(req.HoldID),
		IdempotencyKey: req.IdempotencyKey,
		CustomerEmail:  req.Email,
		Items:          items,
	}

	result, err := h.service.Checkout(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
