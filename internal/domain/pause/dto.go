package pause

type CreateWindowRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	Reason     string `json:"reason"`
}
