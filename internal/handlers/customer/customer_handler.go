package customer

import (
	"net/http"

	"dabbatrack-service/internal/domain/customer"
	"dabbatrack-service/internal/middleware"
	"dabbatrack-service/internal/pkg/response"
	customersvc "dabbatrack-service/internal/service/customer"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	svc *customersvc.CustomerService
}

func NewCustomerHandler(svc *customersvc.CustomerService) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

// Create handles POST /customers.
func (h *CustomerHandler) Create(c *gin.Context) {
	var req customer.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	created, err := h.svc.Create(c.Request.Context(), &req, middleware.GetPrincipal(c))
	if err != nil {
		response.FromError(c, "Failed to create customer", err)
		return
	}

	response.Success(c, http.StatusCreated, "Customer created", created)
}

// List handles GET /customers?status=.
func (h *CustomerHandler) List(c *gin.Context) {
	var filters customer.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	customers, err := h.svc.List(c.Request.Context(), filters, middleware.GetPrincipal(c))
	if err != nil {
		response.FromError(c, "Failed to list customers", err)
		return
	}

	response.Success(c, http.StatusOK, "Customers", customers)
}

// Get handles GET /customers/:id.
func (h *CustomerHandler) Get(c *gin.Context) {
	found, err := h.svc.Get(c.Request.Context(), c.Param("id"), middleware.GetPrincipal(c))
	if err != nil {
		response.FromError(c, "Failed to find customer", err)
		return
	}

	response.Success(c, http.StatusOK, "Customer", found)
}

// SetStatus handles PATCH /customers/:id/status.
func (h *CustomerHandler) SetStatus(c *gin.Context) {
	var req struct {
		Status customer.Status `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.svc.SetStatus(c.Request.Context(), c.Param("id"), req.Status, middleware.GetPrincipal(c)); err != nil {
		response.FromError(c, "Failed to update customer status", err)
		return
	}

	response.Success(c, http.StatusOK, "Customer status updated", nil)
}
