// Package http serves the local mirror API: the dashboard state and the operator
// commands over JSON.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ticketdash/internal/interfaces/http/handlers"
	"ticketdash/internal/interfaces/http/middleware"
	"ticketdash/internal/interfaces/http/routes"
	"ticketdash/internal/shared/config"
	"ticketdash/internal/shared/logger"
	"ticketdash/internal/shared/utils"
)

// Router represents the HTTP router configuration
type Router struct {
	engine           *gin.Engine
	cfg              *config.MirrorConfig
	logger           logger.Interface
	dashboardHandler *handlers.DashboardHandler
	commandHandler   *handlers.CommandHandler
}

// NewRouter creates the mirror router over a snapshot source and a commander.
func NewRouter(source handlers.SnapshotSource, commander handlers.Commander, cfg *config.MirrorConfig, log logger.Interface) *Router {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	log = log.Named("mirror")

	engine := gin.New()
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(log))
	engine.Use(middleware.CORS(cfg.AllowedOrigins))
	engine.Use(middleware.SecurityHeaders())
	engine.Use(middleware.ErrorHandler(log))

	return &Router{
		engine:           engine,
		cfg:              cfg,
		logger:           log,
		dashboardHandler: handlers.NewDashboardHandler(source),
		commandHandler:   handlers.NewCommandHandler(commander, log),
	}
}

// SetupRoutes configures all routes
func (r *Router) SetupRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, http.StatusOK, "", gin.H{"status": "ok"})
	})

	api := r.engine.Group("/api")
	routes.SetupDashboardRoutes(api, &routes.DashboardRouteConfig{
		DashboardHandler: r.dashboardHandler,
	})
	routes.SetupCommandRoutes(api, &routes.CommandRouteConfig{
		CommandHandler: r.commandHandler,
	})

	r.engine.NoRoute(func(c *gin.Context) {
		utils.ErrorResponse(c, http.StatusNotFound, "route not found")
	})
}

// GetEngine returns the gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
