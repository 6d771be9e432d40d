package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcatalog "github.com/ticketing/backend/internal/application/catalog"
	"github.com/ticketing/backend/internal/domain/shared"
	"github.com/ticketing/backend/internal/interfaces/http/dto"
)

// CatalogHandler handles the read-only event catalog endpoints
type CatalogHandler struct {
	BaseHandler
	service *appcatalog.EventService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(service *appcatalog.EventService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes registers catalog routes
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	events := rg.Group("/events")
	{
		events.GET("", h.List)
		events.GET("/:id", h.Get)
	}
}

// List handles GET /events
func (h *CatalogHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get handles GET /events/:id
func (h *CatalogHandler) Get(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid event id")
		return
	}

	result, err := h.service.Get(c.Request.Context(), eventID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
