package dashboard

import (
	"time"

	"dabbatrack-service/internal/domain/attendance"
	"dabbatrack-service/internal/domain/plan"
)

// CustomerRef is the slim customer projection embedded in report rows.
type CustomerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Summary struct {
	Date           time.Time           `json:"date"`
	TotalCustomers int                 `json:"total_customers"`
	ActivePlans    int                 `json:"active_plans"`
	ScheduledCount int                 `json:"scheduled_count"`
	SkippedCount   int                 `json:"skipped_count"`
	DeliveredCount int                 `json:"delivered_count"`
	UnpaidCount    int                 `json:"unpaid_count"`
	PausedCount    int                 `json:"paused_count"`
	OptOuts        []attendance.Record `json:"opt_outs"`
	Alerts         []string            `json:"alerts"`
}

type BillingEntry struct {
	Customer        CustomerRef     `json:"customer"`
	Plan            plan.TiffinPlan `json:"plan"`
	BalanceDue      float64         `json:"balance_due"`
	NextBillingDate time.Time       `json:"next_billing_date"`
}

type CustomerUsage struct {
	Customer   CustomerRef `json:"customer"`
	Month      string      `json:"month"`
	BoxesTaken int         `json:"boxes_taken"`
	Skipped    int         `json:"skipped"`
	Paused     int         `json:"paused"`
}

type MonthlyCustomerLedger struct {
	Customer      CustomerRef `json:"customer"`
	Month         string      `json:"month"`
	LunchCount    int         `json:"lunch_count"`
	DinnerCount   int         `json:"dinner_count"`
	TotalTaken    int         `json:"total_taken"`
	RatePerTiffin float64     `json:"rate_per_tiffin"`
	TotalAmount   float64     `json:"total_amount"`
}
