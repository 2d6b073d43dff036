package user

import (
	"net/http"

	"dabbatrack-service/internal/domain/user"
	"dabbatrack-service/internal/middleware"
	"dabbatrack-service/internal/pkg/response"
	authsvc "dabbatrack-service/internal/service/auth"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc *authsvc.AuthService
}

func NewUserHandler(svc *authsvc.AuthService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Create handles POST /users (admin only).
func (h *UserHandler) Create(c *gin.Context) {
	var req user.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	u, err := h.svc.CreateUser(c.Request.Context(), &req, middleware.GetPrincipal(c))
	if err != nil {
		response.FromError(c, "Failed to create user", err)
		return
	}

	response.Success(c, http.StatusCreated, "User created", u)
}

// Update handles PATCH /users/:id (admin only).
func (h *UserHandler) Update(c *gin.Context) {
	var req user.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	u, err := h.svc.UpdateUser(c.Request.Context(), c.Param("id"), &req, middleware.GetPrincipal(c))
	if err != nil {
		response.FromError(c, "Failed to update user", err)
		return
	}

	response.Success(c, http.StatusOK, "User updated", u)
}
