package handlers

import (
	"net/http"

	"garagepro/internal/common"
	"garagepro/internal/services"

	"github.com/labstack/echo/v4"
)

type DashboardHandlers struct {
	dashboardService services.DashboardServiceInterface
}

func NewDashboardHandlers(dashboardService services.DashboardServiceInterface) *DashboardHandlers {
	return &DashboardHandlers{dashboardService: dashboardService}
}

// GetSummary handles GET /dashboard/summary
func (h *DashboardHandlers) GetSummary(c echo.Context) error {
	summary, err := h.dashboardService.GetSummary(c.Request().Context())
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *DashboardHandlers) RegisterRoutes(g *echo.Group) {
	g.GET("/dashboard/summary", h.GetSummary)
}
