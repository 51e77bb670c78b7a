package routes

import (
	"github.com/gin-gonic/gin"

	"ticketdash/internal/interfaces/http/handlers"
)

type CommandRouteConfig struct {
	CommandHandler *handlers.CommandHandler
}

func SetupCommandRoutes(api *gin.RouterGroup, config *CommandRouteConfig) {
	commands := api.Group("/commands")
	{
		commands.POST("/start", config.CommandHandler.Start)
		commands.POST("/stop", config.CommandHandler.Stop)

		commands.POST("/vendors", config.CommandHandler.AddVendor)
		commands.DELETE("/vendors/:name", config.CommandHandler.RemoveVendor)

		commands.POST("/customers", config.CommandHandler.AddCustomer)
		commands.DELETE("/customers/:name", config.CommandHandler.RemoveCustomer)
	}
}
