package handler

import (
	dashboardapp "github.com/erp/workbench/internal/application/dashboard"
	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the home page panels
type DashboardHandler struct {
	BaseHandler
	dashboard *dashboardapp.Service
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboard *dashboardapp.Service) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Panels returns every panel
// GET /dashboard/panels
func (h *DashboardHandler) Panels(c *gin.Context) {
	o, ok := owner(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	panels, err := h.dashboard.Panels(c.Request.Context(), o.TenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, panels)
}
