package billing

import (
	"net/http"

	"dabbatrack-service/internal/domain/plan"
	"dabbatrack-service/internal/middleware"
	"dabbatrack-service/internal/pkg/response"
	billingsvc "dabbatrack-service/internal/service/billing"

	"github.com/gin-gonic/gin"
)

type BillingHandler struct {
	svc *billingsvc.BillingService
}

func NewBillingHandler(svc *billingsvc.BillingService) *BillingHandler {
	return &BillingHandler{svc: svc}
}

// UpsertPlan handles PUT /plans (admin only).
func (h *BillingHandler) UpsertPlan(c *gin.Context) {
	var req plan.UpsertPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p, err := h.svc.UpsertPlan(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "Failed to save plan", err)
		return
	}

	response.Success(c, http.StatusOK, "Plan saved", p)
}

// MarkPayment handles POST /payments (admin only).
func (h *BillingHandler) MarkPayment(c *gin.Context) {
	var req plan.MarkPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p, err := h.svc.MarkPayment(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "Failed to mark payment", err)
		return
	}

	response.Success(c, http.StatusOK, "Payment recorded", p)
}

// ListPlans handles GET /plans.
func (h *BillingHandler) ListPlans(c *gin.Context) {
	plans, err := h.svc.ListActivePlans(c.Request.Context())
	if err != nil {
		response.FromError(c, "Failed to list plans", err)
		return
	}

	response.Success(c, http.StatusOK, "Active plans", plans)
}

// PlanForCustomer handles GET /customers/:id/plan.
func (h *BillingHandler) PlanForCustomer(c *gin.Context) {
	p, err := h.svc.GetPlanForCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, "Failed to find plan", err)
		return
	}

	response.Success(c, http.StatusOK, "Plan", p)
}

// Summary handles GET /billing/summary.
func (h *BillingHandler) Summary(c *gin.Context) {
	entries, err := h.svc.BillingSummary(c.Request.Context(), middleware.GetPrincipal(c).VendorScope())
	if err != nil {
		response.FromError(c, "Failed to build billing summary", err)
		return
	}

	response.Success(c, http.StatusOK, "Billing summary", entries)
}

// Ledger handles GET /billing/ledger?month=YYYY-MM.
func (h *BillingHandler) Ledger(c *gin.Context) {
	ledger, err := h.svc.MonthlyLedger(c.Request.Context(), c.Query("month"), middleware.GetPrincipal(c).VendorScope())
	if err != nil {
		response.FromError(c, "Failed to build monthly ledger", err)
		return
	}

	response.Success(c, http.StatusOK, "Monthly ledger", ledger)
}

// Usage handles GET /billing/usage?month=YYYY-MM.
func (h *BillingHandler) Usage(c *gin.Context) {
	usage, err := h.svc.MonthlyUsage(c.Request.Context(), c.Query("month"), middleware.GetPrincipal(c).VendorScope())
	if err != nil {
		response.FromError(c, "Failed to build usage report", err)
		return
	}

	response.Success(c, http.StatusOK, "Monthly usage", usage)
}
