package customer

type CreateCustomerRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email"`
	Phone        string `json:"phone" binding:"required"`
	Address      string `json:"address"`
	DietaryNotes string `json:"dietary_notes"`

	// Only honoured for admin callers; everyone else gets their own id.
	VendorUserID string `json:"vendor_user_id"`
}

type ListFilters struct {
	Status *Status `form:"status"`
}
