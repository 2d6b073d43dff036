package attendance

import "time"

// ListFilters are all independently optional; an empty filter is a full scan.
type ListFilters struct {
	Date       *time.Time
	Slot       *Slot
	CustomerID *string
}

type RecordAttendanceRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Slot       Slot   `json:"slot" binding:"required"`
	Status     Status `json:"status" binding:"required"`
	Note       string `json:"note"`
}

type OptOutRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Slot       Slot   `json:"slot" binding:"required"`
	Reason     string `json:"reason"`
}
