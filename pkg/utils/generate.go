package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ==================== BOOKING REFERENCE ====================

// GenerateBookingRef creates a human readable booking reference from the
// booking id. The suffix is the random node segment of the v4 id, so
// references created in the same second stay distinct.
// Format: EXP-YYYYMMDD-HHMMSS-XXXXXXXXXXXX
func GenerateBookingRef(now time.Time, bookingID uuid.UUID) string {
	datePart := now.Format("20060102")
	timePart := now.Format("150405")
	id := bookingID.String()
	suffix := strings.ToUpper(id[len(id)-12:])

	return fmt.Sprintf("EXP-%s-%s-%s", datePart, timePart, suffix)
}

// ToCents converts a dollar amount to the smallest currency unit
func ToCents(amount float64) int64 {
	if amount < 0 {
		return -int64(-amount*100 + 0.5)
	}
	return int64(amount*100 + 0.5)
}

// FromCents converts an amount in the smallest currency unit back to dollars
func FromCents(cents int64) float64 {
	return float64(cents) / 100
}
