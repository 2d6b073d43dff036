package attendance

import (
	"net/http"

	"dabbatrack-service/internal/domain/attendance"
	"dabbatrack-service/internal/middleware"
	"dabbatrack-service/internal/pkg/response"
	attendancesvc "dabbatrack-service/internal/service/attendance"

	"github.com/gin-gonic/gin"
)

type AttendanceHandler struct {
	svc *attendancesvc.AttendanceService
}

func NewAttendanceHandler(svc *attendancesvc.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{svc: svc}
}

// List handles GET /attendance?date=&slot=&customer_id=.
func (h *AttendanceHandler) List(c *gin.Context) {
	records, err := h.svc.List(
		c.Request.Context(),
		c.Query("date"), c.Query("slot"), c.Query("customer_id"),
	)
	if err != nil {
		response.FromError(c, "Failed to list attendance", err)
		return
	}

	response.Success(c, http.StatusOK, "Attendance records", records)
}

// Record handles POST /attendance, creating or replacing the record for the
// (customer, date, slot) key.
func (h *AttendanceHandler) Record(c *gin.Context) {
	var req attendance.RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rec, err := h.svc.Record(c.Request.Context(), &req, middleware.GetPrincipal(c).ID)
	if err != nil {
		response.FromError(c, "Failed to record attendance", err)
		return
	}

	response.Success(c, http.StatusOK, "Attendance recorded", rec)
}

// OptOut handles POST /attendance/opt-out, subject to the same-day cutoff.
func (h *AttendanceHandler) OptOut(c *gin.Context) {
	var req attendance.OptOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rec, err := h.svc.SetOptOut(c.Request.Context(), &req, middleware.GetPrincipal(c).ID)
	if err != nil {
		response.FromError(c, "Failed to record opt-out", err)
		return
	}

	response.Success(c, http.StatusOK, "Opt-out recorded", rec)
}

// OptOuts handles GET /attendance/opt-outs?date=&slot=.
func (h *AttendanceHandler) OptOuts(c *gin.Context) {
	records, err := h.svc.OptOuts(c.Request.Context(), c.Query("date"), c.Query("slot"))
	if err != nil {
		response.FromError(c, "Failed to list opt-outs", err)
		return
	}

	response.Success(c, http.StatusOK, "Opt-outs", records)
}

// LatestForCustomer handles GET /customers/:id/attendance.
func (h *AttendanceHandler) LatestForCustomer(c *gin.Context) {
	records, err := h.svc.LatestForCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, "Failed to list attendance", err)
		return
	}

	response.Success(c, http.StatusOK, "Recent attendance", records)
}
