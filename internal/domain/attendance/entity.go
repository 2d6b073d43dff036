package attendance

import (
	"database/sql"
	"time"
)

type Slot string

const (
	SlotLunch  Slot = "LUNCH"
	SlotDinner Slot = "DINNER"
)

func (s Slot) Valid() bool {
	return s == SlotLunch || s == SlotDinner
}

type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusAbsent  Status = "ABSENT"
	StatusSkipped Status = "SKIPPED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusSkipped:
		return true
	}
	return false
}

// Record is one delivery ledger entry. (customer, date, slot) is the natural
// key: at most one row exists per triple, and writes replace rather than
// append.
type Record struct {
	ID         string         `json:"id" db:"id"`
	CustomerID string         `json:"customer_id" db:"customer_id"`
	Date       time.Time      `json:"date" db:"date"`
	Slot       Slot           `json:"slot" db:"slot"`
	Status     Status         `json:"status" db:"status"`
	Note       sql.NullString `json:"note,omitempty" db:"note"`
	RecordedBy sql.NullString `json:"recorded_by,omitempty" db:"recorded_by"`
}
