package response

import (
	"time"

	"experience-market/internal/data/entity"
)

type CancellationResponse struct {
	ID          string     `json:"id"`
	BookingID   string     `json:"booking_id"`
	TravelerID  string     `json:"traveler_id"`
	Reason      string     `json:"reason,omitempty"`
	Processed   bool       `json:"processed"`
	RequestedAt time.Time  `json:"requested_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

func CancellationToResponse(req *entity.CancellationRequest) CancellationResponse {
	return CancellationResponse{
		ID:          req.ID.String(),
		BookingID:   req.BookingID.String(),
		TravelerID:  req.TravelerID.String(),
		Reason:      req.Reason,
		Processed:   req.Processed,
		RequestedAt: req.RequestedAt,
		ProcessedAt: req.ProcessedAt,
	}
}
