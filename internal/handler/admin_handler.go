package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/adiborse/online-examination-system/internal/response"
	"github.com/adiborse/online-examination-system/internal/service"
)

// AdminHandler handles admin dashboard and result reporting.
type AdminHandler struct {
	dashboardService *service.DashboardService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(dashboardService *service.DashboardService) *AdminHandler {
	return &AdminHandler{dashboardService: dashboardService}
}

// GetDashboard godoc
// GET /api/v1/admin/dashboard
// Platform counters and the most recent submissions.
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.dashboardService.GetAdminDashboard(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, dashboard)
}

// ListResults godoc
// GET /api/v1/admin/results?page=&per_page=
// Paginated submission history across all students with aggregate stats.
func (h *AdminHandler) ListResults(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	results, stats, pagination, err := h.dashboardService.ListResults(c.Request.Context(), page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{
		"results": results,
		"stats":   stats,
	}, pagination)
}
