package routes

import (
	"github.com/gin-gonic/gin"

	"ticketdash/internal/interfaces/http/handlers"
)

type DashboardRouteConfig struct {
	DashboardHandler *handlers.DashboardHandler
}

func SetupDashboardRoutes(api *gin.RouterGroup, config *DashboardRouteConfig) {
	api.GET("/dashboard", config.DashboardHandler.GetDashboard)
}
