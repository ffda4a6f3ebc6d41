package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-dashboard-api/internal/dto"
	apierrors "github.com/yukikurage/task-dashboard-api/internal/errors"
	"github.com/yukikurage/task-dashboard-api/internal/services"
)

type DashboardHandler struct {
	dashboards *services.DashboardService
}

func NewDashboardHandler(dashboards *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards}
}

// ListDashboards returns the dashboards visible to the caller's role
func (h *DashboardHandler) ListDashboards(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}

	dashboards, err := h.dashboards.ListDashboards(user)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDashboardDTOs(dashboards))
}

func (h *DashboardHandler) CreateDashboard(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}

	var req dto.CreateDashboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	dashboard, err := h.dashboards.CreateDashboard(services.CreateDashboardInput{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     user.ID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToDashboardDTO(*dashboard))
}

func (h *DashboardHandler) DeleteDashboard(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.dashboards.DeleteDashboard(id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
