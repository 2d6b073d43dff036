package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims carried by a dabbatrack session token.
type Claims struct {
	Role  string `json:"role"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// IsAdmin checks whether the token belongs to an admin user.
func (c *Claims) IsAdmin() bool {
	return c.Role == "ADMIN"
}
