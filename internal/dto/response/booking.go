package response

import (
	"time"

	"experience-market/internal/data/entity"
)

type CheckoutResponse struct {
	BookingID   string  `json:"booking_id"`
	Reference   string  `json:"reference"`
	SessionID   string  `json:"session_id"`
	URL         string  `json:"url"`
	TotalAmount float64 `json:"total_amount"`
}

type BookingResponse struct {
	ID              string     `json:"id"`
	Reference       string     `json:"reference"`
	ExperienceID    string     `json:"experience_id"`
	ExperienceTitle string     `json:"experience_title,omitempty"`
	TravelerID      string     `json:"traveler_id"`
	Guests          int        `json:"guests"`
	Date            string     `json:"date"`
	Paid            bool       `json:"paid"`
	TotalAmount     float64    `json:"total_amount"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func BookingToResponse(booking *entity.Booking, experienceTitle string) BookingResponse {
	return BookingResponse{
		ID:              booking.ID.String(),
		Reference:       booking.Reference,
		ExperienceID:    booking.ExperienceID.String(),
		ExperienceTitle: experienceTitle,
		TravelerID:      booking.TravelerID.String(),
		Guests:          booking.Guests,
		Date:            booking.Date,
		Paid:            booking.Paid,
		TotalAmount:     booking.TotalAmount,
		PaidAt:          booking.PaidAt,
		CreatedAt:       booking.CreatedAt,
	}
}
