package dashboard

import (
	"net/http"
	"time"

	"dabbatrack-service/internal/pkg/response"
	dashboardsvc "dabbatrack-service/internal/service/dashboard"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	svc *dashboardsvc.DashboardService
}

func NewDashboardHandler(svc *dashboardsvc.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Summary handles GET /dashboard?date=YYYY-MM-DD, defaulting to today.
func (h *DashboardHandler) Summary(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	summary, err := h.svc.Summary(c.Request.Context(), date)
	if err != nil {
		response.FromError(c, "Failed to build dashboard", err)
		return
	}

	response.Success(c, http.StatusOK, "Dashboard", summary)
}
