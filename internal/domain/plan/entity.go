package plan

import (
	"database/sql"
	"time"
)

type BillingCycle string

const (
	CycleMonthly   BillingCycle = "MONTHLY"
	CycleQuarterly BillingCycle = "QUARTERLY"
)

func (c BillingCycle) Valid() bool {
	return c == CycleMonthly || c == CycleQuarterly
}

type Status string

const (
	StatusActive Status = "ACTIVE"
)

const PaymentStatusPaid = "PAID"

// TiffinPlan is the single active plan a customer can hold. Replacing a plan
// keeps the payment columns; changing a rate never clears payment history.
type TiffinPlan struct {
	ID           string       `json:"id" db:"id"`
	CustomerID   string       `json:"customer_id" db:"customer_id"`
	StartDate    time.Time    `json:"start_date" db:"start_date"`
	BillingCycle BillingCycle `json:"billing_cycle" db:"billing_cycle"`
	MonthlyRate  float64      `json:"monthly_rate" db:"monthly_rate"`
	Status       Status       `json:"status" db:"status"`

	LastPaymentStatus sql.NullString `json:"last_payment_status,omitempty" db:"last_payment_status"`
	LastPaymentAt     sql.NullTime   `json:"last_payment_at,omitempty" db:"last_payment_at"`
}

// IsPaid reports whether the most recent recorded payment settled the plan.
func (p *TiffinPlan) IsPaid() bool {
	return p.LastPaymentStatus.Valid && p.LastPaymentStatus.String == PaymentStatusPaid
}
