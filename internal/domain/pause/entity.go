package pause

import (
	"database/sql"
	"time"
)

// Window is a customer pause interval. Both bounds are inclusive. Windows are
// immutable once created and may overlap; overlap never changes the answer of
// a paused-on-date check.
type Window struct {
	ID         string         `json:"id" db:"id"`
	CustomerID string         `json:"customer_id" db:"customer_id"`
	StartDate  time.Time      `json:"start_date" db:"start_date"`
	EndDate    time.Time      `json:"end_date" db:"end_date"`
	Reason     sql.NullString `json:"reason,omitempty" db:"reason"`
	CreatedBy  string         `json:"created_by" db:"created_by"`
}

// Contains reports whether the date falls inside the window, bounds included.
func (w *Window) Contains(date time.Time) bool {
	return !date.Before(w.StartDate) && !date.After(w.EndDate)
}

// OverlapDays returns the number of days the window overlaps [from, to],
// bounds inclusive. Zero when the ranges are disjoint.
func (w *Window) OverlapDays(from, to time.Time) int {
	start := w.StartDate
	if from.After(start) {
		start = from
	}
	end := w.EndDate
	if to.Before(end) {
		end = to
	}
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}
