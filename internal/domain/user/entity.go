package user

import (
	"database/sql"
	"time"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleDispatch Role = "DISPATCH"
	RoleCustomer Role = "CUSTOMER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDispatch, RoleCustomer:
		return true
	}
	return false
}

type User struct {
	ID            string         `json:"id" db:"id"`
	Name          string         `json:"name" db:"name"`
	Email         string         `json:"email" db:"email"`
	Phone         string         `json:"phone" db:"phone"`
	Role          Role           `json:"role" db:"role"`
	PasswordHash  string         `json:"-" db:"password_hash"`
	Description   sql.NullString `json:"description,omitempty" db:"description"`
	HandlesLunch  bool           `json:"handles_lunch" db:"serves_lunch"`
	HandlesDinner bool           `json:"handles_dinner" db:"serves_dinner"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
}

// Principal is the authenticated caller attached to a request. A nil
// Principal means the request is anonymous.
type Principal struct {
	ID    string `json:"id"`
	Role  Role   `json:"role"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// VendorScope resolves the vendor restriction for the caller once per
// request: admins see everything (nil), everyone else is confined to
// customers they own.
func (p *Principal) VendorScope() *string {
	if p == nil || p.Role == RoleAdmin {
		return nil
	}
	id := p.ID
	return &id
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
