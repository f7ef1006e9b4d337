package response

import (
	"time"

	"experience-market/internal/data/entity"
)

type UserResponse struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"external_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	RoleSynced bool      `json:"role_synced"`
	CreatedAt  time.Time `json:"created_at"`
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:         user.ID.String(),
		ExternalID: user.ExternalID,
		Email:      user.Email,
		Name:       user.Name,
		Role:       string(user.Role),
		RoleSynced: user.RoleSynced,
		CreatedAt:  user.CreatedAt,
	}
}
