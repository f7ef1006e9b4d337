package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"experience-market/internal/data/entity"
	"experience-market/internal/dto/request"
	"experience-market/pkg/mailer"

	"go.uber.org/zap"
)

const (
	KindBookingConfirmed   = "booking_confirmed"
	KindBookingReceived    = "booking_received"
	KindApplicationUpdated = "host_application_updated"
	KindHostMessage        = "host_message"
	KindTestEmail          = "test_email"
)

// Publisher hands messages to the broker
type Publisher interface {
	Publish(ctx context.Context, v any) error
}

// NotificationService sends best-effort emails. Trigger methods never
// fail the caller: errors are logged and dropped.
type NotificationService interface {
	BookingConfirmed(ctx context.Context, booking *entity.Booking, exp *entity.Experience, traveler, host *entity.User)
	ApplicationReviewed(ctx context.Context, app *entity.HostApplication, applicant *entity.User)
	HostMessage(ctx context.Context, booking *entity.Booking, exp *entity.Experience, host, traveler *entity.User, req *request.HostMessageRequest)
	SendTestEmail(ctx context.Context, req *request.TestEmailRequest)

	// Deliver decodes a queued message and sends it
	Deliver(ctx context.Context, body []byte) error
}

type notificationService struct {
	publisher Publisher
	mailer    mailer.Mailer
	log       *zap.Logger
}

// NewNotificationService publishes through publisher when it is non-nil
// and sends synchronously through m otherwise
func NewNotificationService(publisher Publisher, m mailer.Mailer, log *zap.Logger) NotificationService {
	return &notificationService{
		publisher: publisher,
		mailer:    m,
		log:       log.With(zap.String("service", "notification")),
	}
}

func (s *notificationService) dispatch(ctx context.Context, msg mailer.Message) {
	if err := msg.Validate(); err != nil {
		s.log.Warn("Notification skipped", zap.String("kind", msg.Kind), zap.Error(err))
		return
	}

	var err error
	if s.publisher != nil {
		err = s.publisher.Publish(ctx, msg)
	} else if s.mailer != nil {
		err = s.mailer.Send(ctx, msg)
	} else {
		s.log.Debug("No notification transport configured", zap.String("kind", msg.Kind))
		return
	}

	if err != nil {
		s.log.Error("Failed to dispatch notification",
			zap.Error(err),
			zap.String("kind", msg.Kind),
			zap.Strings("to", msg.To),
		)
		return
	}

	s.log.Debug("Notification dispatched", zap.String("kind", msg.Kind), zap.Strings("to", msg.To))
}

func displayName(u *entity.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

func (s *notificationService) BookingConfirmed(ctx context.Context, booking *entity.Booking, exp *entity.Experience, traveler, host *entity.User) {
	if traveler != nil && traveler.Email != "" {
		s.dispatch(ctx, mailer.Message{
			Kind:    KindBookingConfirmed,
			To:      []string{traveler.Email},
			Subject: fmt.Sprintf("Booking confirmed: %s", exp.TitleEN),
			Text: fmt.Sprintf(
				"Hi %s,\n\nYour booking %s for %q on %s is confirmed.\nGuests: %d\nTotal paid: $%.2f USD\n\nLocation: %s\n",
				displayName(traveler), booking.Reference, exp.TitleEN, booking.Date,
				booking.Guests, booking.TotalAmount, exp.Location,
			),
		})
	}

	if host != nil && host.Email != "" {
		travelerName := "A traveler"
		if traveler != nil {
			travelerName = displayName(traveler)
		}
		s.dispatch(ctx, mailer.Message{
			Kind:    KindBookingReceived,
			To:      []string{host.Email},
			Subject: fmt.Sprintf("New booking for %s", exp.TitleEN),
			Text: fmt.Sprintf(
				"Hi %s,\n\n%s booked %q on %s for %d guest(s).\nReference: %s\n",
				displayName(host), travelerName, exp.TitleEN, booking.Date, booking.Guests, booking.Reference,
			),
		})
	}
}

func (s *notificationService) ApplicationReviewed(ctx context.Context, app *entity.HostApplication, applicant *entity.User) {
	if applicant == nil || applicant.Email == "" {
		return
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Hi %s,\n\n", displayName(applicant))
	switch app.Status {
	case entity.ApplicationApproved:
		text.WriteString("Your host application was approved. You can now publish experiences.\n")
	case entity.ApplicationRejected:
		text.WriteString("Your host application was not approved this time.\n")
	default:
		return
	}
	if app.ReviewNote != "" {
		fmt.Fprintf(&text, "\nNote from the team: %s\n", app.ReviewNote)
	}

	s.dispatch(ctx, mailer.Message{
		Kind:    KindApplicationUpdated,
		To:      []string{applicant.Email},
		Subject: fmt.Sprintf("Your host application was %s", app.Status),
		Text:    text.String(),
	})
}

func (s *notificationService) HostMessage(ctx context.Context, booking *entity.Booking, exp *entity.Experience, host, traveler *entity.User, req *request.HostMessageRequest) {
	if traveler == nil || traveler.Email == "" {
		return
	}

	s.dispatch(ctx, mailer.Message{
		Kind:    KindHostMessage,
		To:      []string{traveler.Email},
		Subject: req.Subject,
		Text: fmt.Sprintf(
			"Message from %s about your booking %s (%s on %s):\n\n%s\n",
			displayName(host), booking.Reference, exp.TitleEN, booking.Date, req.Message,
		),
	})
}

func (s *notificationService) SendTestEmail(ctx context.Context, req *request.TestEmailRequest) {
	subject := req.Subject
	if subject == "" {
		subject = "Test email"
	}

	s.dispatch(ctx, mailer.Message{
		Kind:    KindTestEmail,
		To:      []string{req.To},
		Subject: subject,
		Text:    "This is a test email. Delivery is working.\n",
	})
}

func (s *notificationService) Deliver(ctx context.Context, body []byte) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()

	var msg mailer.Message
	if err := dec.Decode(&msg); err != nil {
		return fmt.Errorf("decode notification: %w", err)
	}
	if err := msg.Validate(); err != nil {
		return err
	}

	if s.mailer == nil {
		return fmt.Errorf("no mailer configured")
	}

	return s.mailer.Send(ctx, msg)
}
