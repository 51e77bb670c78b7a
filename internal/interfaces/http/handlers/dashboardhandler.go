package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ticketdash/internal/interfaces/dashboard"
	"ticketdash/internal/shared/utils"
)

// SnapshotSource provides the current state of every panel.
type SnapshotSource interface {
	Snapshot() dashboard.Snapshot
}

// DashboardHandler serves the dashboard state.
type DashboardHandler struct {
	source SnapshotSource
}

func NewDashboardHandler(source SnapshotSource) *DashboardHandler {
	return &DashboardHandler{source: source}
}

// GetDashboard handles GET /api/dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "", h.source.Snapshot())
}
