package handlers

import (
	"fire_gateway/internal/logger"
	"fire_gateway/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires the HTTP API and the MQTT telemetry callback to services.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	apiToken string
}

// NewHandler constructs a handler. An empty apiToken leaves the API open.
func NewHandler(services *service.Service, log *logger.Logger, apiToken string) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{services: services, log: log, apiToken: apiToken}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	h.registerAPIRoutes(router)

	// Live stream of the latest measurement. Browsers cannot set headers on
	// the upgrade request, so the token may also come as ?token=.
	router.GET("/ws", h.apiTokenMiddleware, h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.apiTokenMiddleware)
	{
		measurements := api.Group("/measurements")
		{
			measurements.GET("", h.listMeasurements)
			measurements.GET("/latest", h.latestMeasurement)
		}
	}
}
