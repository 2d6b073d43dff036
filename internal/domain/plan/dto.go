package plan

type UpsertPlanRequest struct {
	CustomerID   string       `json:"customer_id" binding:"required"`
	MonthlyRate  float64      `json:"monthly_rate"`
	BillingCycle BillingCycle `json:"billing_cycle" binding:"required"`
	StartDate    string       `json:"start_date" binding:"required"`
}

type MarkPaymentRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
	Status     string `json:"status" binding:"required"`
	PaidAt     string `json:"paid_at"`
}
