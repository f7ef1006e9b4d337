package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"experience-market/pkg/utils"
)

var (
	// ErrInvalidSignature is returned when a webhook payload does not carry
	// a valid signature for the configured secret
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrInvalidPayload is returned for events that do not match the
	// expected shape
	ErrInvalidPayload = errors.New("invalid webhook payload")
)

const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutExpired   = "checkout.session.expired"
)

// Gateway is the payment processor used by checkout and the webhook
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	ParseWebhook(payload []byte, signature string) (*Event, error)
}

type CheckoutParams struct {
	Title       string
	Description string
	UnitCents   int64
	Quantity    int64
	Reference   string
	Metadata    BookingMetadata
}

type CheckoutSession struct {
	ID  string
	URL string
}

// Event is a verified webhook event. Session is set for checkout events.
type Event struct {
	ID      string
	Type    string
	Session *SessionEvent
}

type SessionEvent struct {
	ID            string
	PaymentStatus string
	Metadata      BookingMetadata
}

// BookingMetadata travels with the checkout session and comes back on the
// webhook, so the booking can be rebuilt if the local row is missing
type BookingMetadata struct {
	ExperienceID string  `json:"experience_id" validate:"required,uuid"`
	TravelerID   string  `json:"traveler_id" validate:"required,uuid"`
	Guests       int     `json:"guests" validate:"required,gte=1"`
	Date         string  `json:"date" validate:"required,isodate"`
	Amount       float64 `json:"amount" validate:"gte=0"`
}

func (m BookingMetadata) Map() map[string]string {
	return map[string]string{
		"experience_id": m.ExperienceID,
		"traveler_id":   m.TravelerID,
		"guests":        strconv.Itoa(m.Guests),
		"date":          m.Date,
		"amount":        strconv.FormatFloat(m.Amount, 'f', 2, 64),
	}
}

// ParseBookingMetadata rebuilds and validates metadata read from an event
func ParseBookingMetadata(values map[string]string) (BookingMetadata, error) {
	guests, err := strconv.Atoi(values["guests"])
	if err != nil {
		return BookingMetadata{}, fmt.Errorf("%w: guests %q", ErrInvalidPayload, values["guests"])
	}

	amount, err := strconv.ParseFloat(values["amount"], 64)
	if err != nil {
		return BookingMetadata{}, fmt.Errorf("%w: amount %q", ErrInvalidPayload, values["amount"])
	}

	meta := BookingMetadata{
		ExperienceID: values["experience_id"],
		TravelerID:   values["traveler_id"],
		Guests:       guests,
		Date:         values["date"],
		Amount:       amount,
	}

	if errs := utils.ValidateStruct(meta); len(errs) > 0 {
		return BookingMetadata{}, fmt.Errorf("%w: %s", ErrInvalidPayload, utils.FormatValidationErrors(errs))
	}

	return meta, nil
}
