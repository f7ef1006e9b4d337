package response

import (
	"time"

	"experience-market/internal/data/entity"
)

type HostApplicationResponse struct {
	ID         string                        `json:"id"`
	UserID     string                        `json:"user_id"`
	Payload    entity.HostApplicationPayload `json:"payload"`
	Status     string                        `json:"status"`
	ReviewNote string                        `json:"review_note,omitempty"`
	ReviewedBy *string                       `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time                    `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time                     `json:"created_at"`
}

func HostApplicationToResponse(app *entity.HostApplication) HostApplicationResponse {
	resp := HostApplicationResponse{
		ID:         app.ID.String(),
		UserID:     app.UserID.String(),
		Payload:    app.Payload,
		Status:     string(app.Status),
		ReviewNote: app.ReviewNote,
		ReviewedAt: app.ReviewedAt,
		CreatedAt:  app.CreatedAt,
	}
	if app.ReviewedBy != nil {
		reviewer := app.ReviewedBy.String()
		resp.ReviewedBy = &reviewer
	}
	return resp
}
