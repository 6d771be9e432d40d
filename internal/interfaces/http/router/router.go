package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ticketing/backend/internal/infrastructure/logger"
	"github.com/ticketing/backend/internal/interfaces/http/handler"
	"github.com/ticketing/backend/internal/interfaces/http/middleware"
)

// newEngine builds a gin engine with the shared middleware stack
func newEngine(log *zap.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
	)
	return engine
}

// NewInventoryRouter builds the router of the inventory service
func NewInventoryRouter(log *zap.Logger, inventory *handler.InventoryHandler, health *handler.HealthHandler) *gin.Engine {
	engine := newEngine(log)
	health.RegisterRoutes(engine)
	inventory.RegisterRoutes(&engine.RouterGroup)
	return engine
}

// NewOrderRouter builds the router of the order service
func NewOrderRouter(log *zap.Logger, orders *handler.OrderHandler, health *handler.HealthHandler) *gin.Engine {
	engine := newEngine(log)
	health.RegisterRoutes(engine)
	orders.RegisterRoutes(&engine.RouterGroup)
	return engine
}

// NewGatewayRouter builds the router of the public gateway. The
// gateway carries CORS since browsers talk to it directly.
func NewGatewayRouter(log *zap.Logger, corsConfig middleware.CORSConfig, gateway *handler.GatewayHandler, catalog *handler.CatalogHandler, health *handler.HealthHandler) *gin.Engine {
	engine := newEngine(log)
	engine.Use(middleware.CORSWithConfig(corsConfig))
	health.RegisterRoutes(engine)

	api := engine.Group("/api")
	gateway.RegisterRoutes(api)
	catalog.RegisterRoutes(api)
	return engine
}
