package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"ticketdash/internal/application/control"
	"ticketdash/internal/domain/simulation"
	apperrors "ticketdash/internal/shared/errors"
	"ticketdash/internal/shared/logger"
	"ticketdash/internal/shared/utils"
)

// Commander runs operator commands without the form workflow.
// It is satisfied by *control.Panel.
type Commander interface {
	Run(ctx context.Context, kind control.FormKind, form utils.Form) (*control.Result, error)
	RunStartDefault(ctx context.Context) (*control.Result, error)
	Stop(ctx context.Context) (*control.Result, error)
}

// CommandHandler exposes the control panel's commands over HTTP.
type CommandHandler struct {
	commander Commander
	logger    logger.Interface
}

func NewCommandHandler(commander Commander, logger logger.Interface) *CommandHandler {
	return &CommandHandler{
		commander: commander,
		logger:    logger,
	}
}

// Start handles POST /api/commands/start
func (h *CommandHandler) Start(c *gin.Context) {
	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.badRequest(c, err)
		return
	}

	if req.MaxCapacity == nil {
		h.respond(c, control.CommandStart)(h.commander.RunStartDefault(c.Request.Context()))
		return
	}
	form := simulation.CapacityForm(req.MaxCapacity.String())
	h.respond(c, control.CommandStart)(h.commander.Run(c.Request.Context(), control.FormStart, form))
}

// Stop handles POST /api/commands/stop
func (h *CommandHandler) Stop(c *gin.Context) {
	h.respond(c, control.CommandStop)(h.commander.Stop(c.Request.Context()))
}

// AddVendor handles POST /api/commands/vendors
func (h *CommandHandler) AddVendor(c *gin.Context) {
	var req AddVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	form := simulation.VendorForm(req.Name, req.EventName,
		req.TicketsPerRelease.String(), req.ReleaseInterval.String(),
		req.TotalTickets.String(), req.Price.String())
	h.respond(c, control.CommandAddVendor)(h.commander.Run(c.Request.Context(), control.FormAddVendor, form))
}

// RemoveVendor handles DELETE /api/commands/vendors/:name
func (h *CommandHandler) RemoveVendor(c *gin.Context) {
	form := simulation.RemovalForm(c.Param("name"))
	h.respond(c, control.CommandRemoveVendor)(h.commander.Run(c.Request.Context(), control.FormRemoveVendor, form))
}

// AddCustomer handles POST /api/commands/customers
func (h *CommandHandler) AddCustomer(c *gin.Context) {
	var req AddCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	form := simulation.CustomerForm(req.Name, req.RetrievalInterval.String(), req.Quantity.String())
	h.respond(c, control.CommandAddCustomer)(h.commander.Run(c.Request.Context(), control.FormAddCustomer, form))
}

// RemoveCustomer handles DELETE /api/commands/customers/:name
func (h *CommandHandler) RemoveCustomer(c *gin.Context) {
	form := simulation.RemovalForm(c.Param("name"))
	h.respond(c, control.CommandRemoveCustomer)(h.commander.Run(c.Request.Context(), control.FormRemoveCustomer, form))
}

func (h *CommandHandler) respond(c *gin.Context, command control.CommandName) func(*control.Result, error) {
	return func(result *control.Result, err error) {
		if err != nil {
			h.logger.Warnw("command rejected", "command", command, "error", err)
			utils.ErrorResponseWithError(c, err)
			return
		}
		utils.SuccessResponse(c, http.StatusOK, result.Message, result)
	}
}

func (h *CommandHandler) badRequest(c *gin.Context, err error) {
	appErr := apperrors.NewValidationError("body", "Request body must be a JSON object with valid numbers")
	appErr.Details = err.Error()
	utils.ErrorResponseWithError(c, appErr)
}
