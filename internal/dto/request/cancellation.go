package request

type CreateCancellationRequest struct {
	Reason string `json:"reason" validate:"max=2000"`
}

type CancellationListRequest struct {
	PaginatedRequest
	// Processed filters by state when set
	Processed *bool `json:"processed"`
}
