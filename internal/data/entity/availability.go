package entity

import (
	"time"

	"github.com/google/uuid"
)

type AvailabilityStatus string

const (
	AvailabilityAvailable AvailabilityStatus = "available"
	AvailabilityBlocked   AvailabilityStatus = "blocked"
	AvailabilityBooked    AvailabilityStatus = "booked"
)

// Availability is one day of an experience calendar. A day without a row
// is available with no booked guests.
type Availability struct {
	ExperienceID uuid.UUID          `db:"experience_id"`
	Date         string             `db:"date"`
	Status       AvailabilityStatus `db:"status"`
	BookedGuests int                `db:"booked_guests"`
	UpdatedAt    time.Time          `db:"updated_at"`
}
