package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appinv "github.com/ticketing/backend/internal/application/inventory"
	"github.com/ticketing/backend/internal/domain/shared"
	"github.com/ticketing/backend/internal/interfaces/http/dto"
)

// InventoryHandler handles the inventory service endpoints
type InventoryHandler struct {
	BaseHandler
	service *appinv.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(service *appinv.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// RegisterRoutes registers inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inv := rg.Group("/inventory")
	{
		inv.POST("/hold", h.Hold)
		inv.POST("/release", h.Release)
		inv.POST("/commit", h.Commit)
		inv.GET("/items/:session_id/:ticket_type_id", h.GetItem)
	}
}

// Hold handles POST /inventory/hold
func (h *InventoryHandler) Hold(c *gin.Context) {
	var req dto.HoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := appinv.HoldCommand{
		HoldID:       uuid.MustParse(req.HoldID),
		SessionID:    uuid.MustParse(req.SessionID),
		TicketTypeID: uuid.MustParse(req.TicketTypeID),
		Quantity:     req.Quantity,
		ExpiresAt:    req.ExpiresAt,
	}

	result, err := h.service.Hold(c.Request.Context(), cmd)
	if err != nil {
		var insufficient *appinv.InsufficientInventoryError
		if errors.As(err, &insufficient) {
			c.JSON(http.StatusConflict, dto.InsufficientInventoryResponse{
				Success: false,
				Error: &dto.ErrorInfo{
					Code:    shared.ErrInsufficientInventory.Code,
					Message: shared.ErrInsufficientInventory.Message,
				},
				AvailableQuantity: insufficient.AvailableQuantity,
			})
			return
		}
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.HoldResponse{
		Success:           true,
		HoldID:            result.HoldID.String(),
		AvailableQuantity: result.AvailableQuantity,
	})
}

// Release handles POST /inventory/release
func (h *InventoryHandler) Release(c *gin.Context) {
	var req dto.HoldReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.service.Release(c.Request.Context(), uuid.MustParse(req.HoldID)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nil)
}

// Commit handles POST /inventory/commit
func (h *InventoryHandler) Commit(c *gin.Context) {
	var req dto.HoldReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.service.Commit(c.Request.Context(), uuid.MustParse(req.HoldID)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nil)
}

// GetItem handles GET /inventory/items/:session_id/:ticket_type_id
func (h *InventoryHandler) GetItem(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		h.BadRequest(c, "invalid session_id")
		return
	}
	ticketTypeID, err := uuid.Parse(c.Param("ticket_type_id"))
	if err != nil {
		h.BadRequest(c, "invalid ticket_type_id")
		return
	}

	result, err := h.service.Availability(c.Request.Context(), sessionID, ticketTypeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
