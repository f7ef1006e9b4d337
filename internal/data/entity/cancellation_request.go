package entity

import (
	"time"

	"github.com/google/uuid"
)

type CancellationRequest struct {
	ID          uuid.UUID  `db:"id"`
	BookingID   uuid.UUID  `db:"booking_id"`
	TravelerID  uuid.UUID  `db:"traveler_id"`
	Reason      string     `db:"reason"`
	Processed   bool       `db:"processed"`
	RequestedAt time.Time  `db:"requested_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
