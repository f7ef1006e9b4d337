package entity

import (
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	BaseSimple
	Reference         string     `db:"reference"`
	ExperienceID      uuid.UUID  `db:"experience_id"`
	TravelerID        uuid.UUID  `db:"traveler_id"`
	Guests            int        `db:"guests"`
	Date              string     `db:"date"`
	CheckoutSessionID string     `db:"checkout_session_id"`
	Paid              bool       `db:"paid"`
	TotalAmount       float64    `db:"total_amount"`
	PaidAt            *time.Time `db:"paid_at"`
}
