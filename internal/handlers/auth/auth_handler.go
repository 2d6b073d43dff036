package auth

import (
	"net/http"

	"dabbatrack-service/internal/domain/user"
	"dabbatrack-service/internal/middleware"
	xerrors "dabbatrack-service/internal/pkg/errors"
	"dabbatrack-service/internal/pkg/response"
	authsvc "dabbatrack-service/internal/service/auth"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc *authsvc.AuthService
}

func NewAuthHandler(svc *authsvc.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login handles POST /auth/login (phone + OTP).
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "Login failed", err)
		return
	}

	response.Success(c, http.StatusOK, resp.Message, resp)
}

// LoginWithPassword handles POST /auth/login/password (email + password).
func (h *AuthHandler) LoginWithPassword(c *gin.Context) {
	var req user.PasswordLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	resp, err := h.svc.LoginWithPassword(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "Login failed", err)
		return
	}

	response.Success(c, http.StatusOK, resp.Message, resp)
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		response.FromError(c, "Authentication required", xerrors.ErrUnauthorized)
		return
	}
	response.Success(c, http.StatusOK, "Current user", principal)
}

// Logout handles POST /auth/logout, revoking only the presented session.
func (h *AuthHandler) Logout(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	jti := middleware.GetSessionJTI(c)
	if principal == nil || jti == "" {
		response.FromError(c, "Authentication required", xerrors.ErrUnauthorized)
		return
	}

	if err := h.svc.Logout(c.Request.Context(), principal.ID, jti); err != nil {
		response.FromError(c, "Logout failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Logged out", nil)
}

// LogoutAll handles POST /auth/logout-all, revoking every session of the
// caller.
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		response.FromError(c, "Authentication required", xerrors.ErrUnauthorized)
		return
	}

	if err := h.svc.LogoutAll(c.Request.Context(), principal.ID); err != nil {
		response.FromError(c, "Logout failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Logged out everywhere", nil)
}
