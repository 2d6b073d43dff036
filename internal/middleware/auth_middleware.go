package middleware

import (
	"context"
	"strings"

	"dabbatrack-service/internal/domain/user"
	xerrors "dabbatrack-service/internal/pkg/errors"
	"dabbatrack-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	principalKey = "principal"
	jtiKey       = "session_jti"
)

// TokenValidator resolves a bearer token to a principal plus the session jti.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*user.Principal, string, error)
}

// Identify attaches the caller's principal to the context when a valid token
// is presented. It never aborts: a bad or missing token simply leaves the
// request anonymous, and the route-level guards decide what that means.
func Identify(validator TokenValidator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c)
		if token == "" {
			c.Next()
			return
		}

		principal, jti, err := validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			logger.Warn("token rejected", zap.Error(err))
			c.Next()
			return
		}

		c.Set(principalKey, principal)
		c.Set(jtiKey, jti)
		c.Next()
	}
}

// RequireAuth aborts anonymous requests with 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetPrincipal(c) == nil {
			response.FromError(c, "Authentication required", xerrors.ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts requests from non-admin callers. Anonymous requests get
// 401, authenticated non-admins get 403.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := GetPrincipal(c)
		if principal == nil {
			response.FromError(c, "Authentication required", xerrors.ErrUnauthorized)
			return
		}
		if !principal.IsAdmin() {
			response.FromError(c, "Admin access required", xerrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the authenticated caller, or nil for anonymous
// requests.
func GetPrincipal(c *gin.Context) *user.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	principal, ok := v.(*user.Principal)
	if !ok {
		return nil
	}
	return principal
}

// GetSessionJTI returns the jti of the session behind the current request,
// empty for anonymous requests.
func GetSessionJTI(c *gin.Context) string {
	v, ok := c.Get(jtiKey)
	if !ok {
		return ""
	}
	jti, _ := v.(string)
	return jti
}

func extractBearer(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
