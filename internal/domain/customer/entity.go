package customer

import (
	"database/sql"
	"time"
)

type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusPaused Status = "PAUSED"
)

type Customer struct {
	ID           string         `json:"id" db:"id"`
	Name         string         `json:"name" db:"name"`
	Email        sql.NullString `json:"email,omitempty" db:"email"`
	Phone        string         `json:"phone" db:"phone"`
	Address      sql.NullString `json:"address,omitempty" db:"address"`
	DietaryNotes sql.NullString `json:"dietary_notes,omitempty" db:"dietary_notes"`
	Status       Status         `json:"status" db:"status"`

	// Owning vendor. Null means the record is platform-level (admin owned).
	VendorUserID sql.NullString `json:"vendor_user_id,omitempty" db:"vendor_user_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
