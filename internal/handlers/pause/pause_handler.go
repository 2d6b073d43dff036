package pause

import (
	"net/http"

	"dabbatrack-service/internal/domain/pause"
	"dabbatrack-service/internal/middleware"
	"dabbatrack-service/internal/pkg/response"
	pausesvc "dabbatrack-service/internal/service/pause"

	"github.com/gin-gonic/gin"
)

type PauseHandler struct {
	svc *pausesvc.PauseService
}

func NewPauseHandler(svc *pausesvc.PauseService) *PauseHandler {
	return &PauseHandler{svc: svc}
}

// Create handles POST /pause-windows.
func (h *PauseHandler) Create(c *gin.Context) {
	var req pause.CreateWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	w, err := h.svc.Create(c.Request.Context(), &req, middleware.GetPrincipal(c).ID)
	if err != nil {
		response.FromError(c, "Failed to create pause window", err)
		return
	}

	response.Success(c, http.StatusCreated, "Pause window created", w)
}

// ListByCustomer handles GET /customers/:id/pause-windows.
func (h *PauseHandler) ListByCustomer(c *gin.Context) {
	windows, err := h.svc.ListByCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, "Failed to list pause windows", err)
		return
	}

	response.Success(c, http.StatusOK, "Pause windows", windows)
}

// IsPaused handles GET /customers/:id/paused?date=.
func (h *PauseHandler) IsPaused(c *gin.Context) {
	paused, err := h.svc.IsPausedOnDate(c.Request.Context(), c.Param("id"), c.Query("date"))
	if err != nil {
		response.FromError(c, "Failed to check pause state", err)
		return
	}

	response.Success(c, http.StatusOK, "Pause state", gin.H{"paused": paused})
}
