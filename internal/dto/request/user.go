package request

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=traveler host admin"`
}

type UserListRequest struct {
	PaginatedRequest
	Role string `json:"role" validate:"omitempty,oneof=traveler host admin"`
}

type TestEmailRequest struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"max=200"`
}
