// internal/routes/routes.go
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"scope-service/internal/config"
	"scope-service/internal/database"
	"scope-service/internal/handler"
	"scope-service/internal/middleware"
	"scope-service/internal/service"
	"scope-service/internal/utils"
)

// Router holds all dependencies for routing
type Router struct {
	config            *config.Config
	logger            *zap.Logger
	db                *database.DB
	driverManager     *service.DriverManager
	instrumentService *service.InstrumentService
	operationService  *service.OperationService
	captureService    *service.CaptureService
	discoveryService  *service.DiscoveryService
	wsHandler         *handler.WebSocketHandler
}

// NewRouter creates a new router instance. The WebSocket handler is
// built by the caller so it can be wired as the capture event
// publisher before any route is served.
func NewRouter(
	config *config.Config,
	logger *zap.Logger,
	db *database.DB,
	driverManager *service.DriverManager,
	instrumentService *service.InstrumentService,
	operationService *service.OperationService,
	captureService *service.CaptureService,
	discoveryService *service.DiscoveryService,
	wsHandler *handler.WebSocketHandler,
) *Router {
	return &Router{
		config:            config,
		logger:            logger,
		db:                db,
		driverManager:     driverManager,
		instrumentService: instrumentService,
		operationService:  operationService,
		captureService:    captureService,
		discoveryService:  discoveryService,
		wsHandler:         wsHandler,
	}
}

// SetupRouter creates and configures the Gin router
func (r *Router) SetupRouter() *gin.Engine {
	// Set Gin mode
	if r.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	r.addMiddleware(router)
	r.addRoutes(router)

	return router
}

// addMiddleware adds middleware to the router
func (r *Router) addMiddleware(router *gin.Engine) {
	// Recovery middleware
	router.Use(middleware.RecoveryMiddleware(r.logger))

	// Request ID middleware
	router.Use(middleware.RequestIDMiddleware())

	// Logging middleware
	serviceLogger := utils.NewServiceLogger(r.logger, "http-server")
	router.Use(middleware.LoggingMiddleware(serviceLogger))

	// CORS middleware
	router.Use(middleware.CORSMiddleware(&r.config.Security))

	// Authentication middleware would go here
	// router.Use(middleware.AuthMiddleware(&r.config.Security))

	r.logger.Info("Middleware configured")
}

// addRoutes sets up all application routes
func (r *Router) addRoutes(router *gin.Engine) {
	// Create handlers
	healthHandler := handler.NewHealthHandler(r.db, r.driverManager, r.config, r.logger)
	instrumentHandler := handler.NewInstrumentHandler(r.instrumentService, r.logger)
	operationHandler := handler.NewOperationHandler(r.operationService, r.logger)
	captureHandler := handler.NewCaptureHandler(r.captureService, r.logger)
	discoveryHandler := handler.NewDiscoveryHandler(r.discoveryService, r.logger)

	// Health check routes (no auth required)
	healthHandler.RegisterRoutes(router.Group(""))

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	instrumentHandler.RegisterRoutes(apiV1)
	operationHandler.RegisterRoutes(apiV1)
	operationHandler.RegisterInstrumentRoutes(apiV1)
	captureHandler.RegisterRoutes(apiV1)
	discoveryHandler.RegisterRoutes(apiV1)

	// WebSocket connection statistics
	apiV1.GET("/ws/stats", func(c *gin.Context) {
		utils.SuccessResponse(c, http.StatusOK, "Connection statistics retrieved", r.wsHandler.GetConnectionStats())
	})

	// WebSocket routes
	r.wsHandler.RegisterRoutes(router.Group("/ws"))

	// Documentation routes
	r.addDocumentationRoutes(router)

	r.logger.Info("All routes configured successfully")
}

// addDocumentationRoutes sets up documentation routes
func (r *Router) addDocumentationRoutes(router *gin.Engine) {
	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	// Swagger redirect for convenience
	router.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
}
