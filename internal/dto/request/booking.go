package request

type CheckoutRequest struct {
	ExperienceID string `json:"experience_id" validate:"required,uuid"`
	Date         string `json:"date" validate:"required,isodate"`
	Guests       int    `json:"guests" validate:"required,gte=1"`
}

type BookingListRequest struct {
	PaginatedRequest
	ExperienceID string `json:"experience_id" validate:"omitempty,uuid"`
	PaidOnly     bool   `json:"paid_only"`
}

// HostMessageRequest is a note a host sends to the traveler of a booking
type HostMessageRequest struct {
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}
