package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"experience-market/internal/data/entity"
	"experience-market/internal/data/repository"
	"experience-market/internal/dto/request"
	"experience-market/internal/dto/response"
	"experience-market/pkg/payment"
	"experience-market/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// Traveler
	CreateCheckout(ctx context.Context, actor Actor, req *request.CheckoutRequest) (*response.CheckoutResponse, error)
	GetMyBookings(ctx context.Context, actor Actor, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	// Payment processor callback
	HandleWebhook(ctx context.Context, payload []byte, signature string) error

	// Host
	GetHostBookings(ctx context.Context, actor Actor, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	MessageTraveler(ctx context.Context, actor Actor, bookingID string, req *request.HostMessageRequest) error

	// Admin
	GetAllBookings(ctx context.Context, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetBookingByID(ctx context.Context, actor Actor, bookingID string) (*response.BookingResponse, error)
}

type bookingService struct {
	repo     *repository.Repository
	payments payment.Gateway
	notifier NotificationService
	now      func() time.Time
	log      *zap.Logger
}

func NewBookingService(repo *repository.Repository, payments payment.Gateway, notifier NotificationService, log *zap.Logger) BookingService {
	return &bookingService{
		repo:     repo,
		payments: payments,
		notifier: notifier,
		now:      time.Now,
		log:      log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateCheckout(ctx context.Context, actor Actor, req *request.CheckoutRequest) (*response.CheckoutResponse, error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Checkout validation failed", zap.Any("errors", errs))
		return nil, validationError("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	if req.Date < utils.FormatDate(s.now()) {
		return nil, validationError("cannot book a date in the past")
	}

	experienceID, _ := uuid.Parse(req.ExperienceID)
	exp, err := s.repo.Experience.FindByID(ctx, experienceID)
	if err != nil {
		return nil, fmt.Errorf("find experience: %w", err)
	}
	if exp == nil {
		return nil, notFound("experience %s not found", req.ExperienceID)
	}
	if exp.Status != entity.ExperienceStatusActive {
		return nil, conflict("experience is not available for booking")
	}

	if req.Guests > exp.MaxGuests {
		return nil, validationError("guests (%d) exceed the maximum of %d for this experience", req.Guests, exp.MaxGuests)
	}

	day, err := s.repo.Availability.FindByDate(ctx, exp.ID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("find availability: %w", err)
	}
	if day != nil {
		if day.Status == entity.AvailabilityBlocked {
			return nil, conflict("date %s is not available", req.Date)
		}
		if left := remaining(exp.MaxGuests, day.BookedGuests); req.Guests > left {
			return nil, conflict("only %d spot(s) left on %s", left, req.Date)
		}
	}

	// priced in cents so the stored total always equals what Stripe charges
	unitCents := utils.ToCents(exp.PriceUSD)
	total := utils.FromCents(unitCents * int64(req.Guests))
	now := s.now()
	bookingID := uuid.New()
	reference := utils.GenerateBookingRef(now, bookingID)
	meta := payment.BookingMetadata{
		ExperienceID: exp.ID.String(),
		TravelerID:   actor.UserID.String(),
		Guests:       req.Guests,
		Date:         req.Date,
		Amount:       total,
	}

	session, err := s.payments.CreateCheckoutSession(ctx, payment.CheckoutParams{
		Title:       exp.TitleEN,
		Description: exp.DescriptionEN,
		UnitCents:   unitCents,
		Quantity:    int64(req.Guests),
		Reference:   reference,
		Metadata:    meta,
	})
	if err != nil {
		s.log.Error("Checkout session creation failed",
			zap.Error(err),
			zap.String("experience_id", req.ExperienceID),
		)
		return nil, newError(ErrPayment, "could not start payment, please try again")
	}

	booking := &entity.Booking{
		BaseSimple: entity.BaseSimple{
			ID:        bookingID,
			CreatedAt: now,
		},
		Reference:         reference,
		ExperienceID:      exp.ID,
		TravelerID:        actor.UserID,
		Guests:            req.Guests,
		Date:              req.Date,
		CheckoutSessionID: session.ID,
		TotalAmount:       total,
	}
	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("Checkout session created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("reference", reference),
		zap.String("session_id", session.ID),
		zap.Int("guests", req.Guests),
		zap.Float64("total", total),
	)

	return &response.CheckoutResponse{
		BookingID:   booking.ID.String(),
		Reference:   reference,
		SessionID:   session.ID,
		URL:         session.URL,
		TotalAmount: total,
	}, nil
}

func (s *bookingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.payments.ParseWebhook(payload, signature)
	switch {
	case errors.Is(err, payment.ErrInvalidSignature):
		s.log.Warn("Webhook signature rejected", zap.Error(err))
		return newError(ErrSignature, "invalid webhook signature")
	case errors.Is(err, payment.ErrInvalidPayload):
		s.log.Warn("Webhook payload rejected", zap.Error(err))
		return validationError("%s", err.Error())
	case err != nil:
		return fmt.Errorf("parse webhook: %w", err)
	}

	switch event.Type {
	case payment.EventCheckoutCompleted:
		return s.confirmPayment(ctx, event)
	case payment.EventCheckoutExpired:
		s.log.Info("Checkout session expired", zap.String("session_id", event.Session.ID))
		return nil
	default:
		s.log.Debug("Webhook event ignored", zap.String("type", event.Type), zap.String("event_id", event.ID))
		return nil
	}
}

// confirmPayment upserts the paid booking keyed on the session id and
// books the day, all in one transaction. Redelivered events are no-ops.
func (s *bookingService) confirmPayment(ctx context.Context, event *payment.Event) error {
	sess := event.Session
	if sess.PaymentStatus != "paid" && sess.PaymentStatus != "no_payment_required" {
		s.log.Info("Checkout completed without payment yet",
			zap.String("session_id", sess.ID),
			zap.String("payment_status", sess.PaymentStatus),
		)
		return nil
	}

	meta := sess.Metadata
	experienceID, _ := uuid.Parse(meta.ExperienceID)
	travelerID, _ := uuid.Parse(meta.TravelerID)

	var (
		confirmed *entity.Booking
		exp       *entity.Experience
	)

	err := s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		confirmed = nil
		now := s.now()

		booking, err := tx.Booking.FindBySessionID(ctx, sess.ID)
		if err != nil {
			return err
		}

		if booking != nil && booking.Paid {
			return nil
		}

		exp, err = tx.Experience.FindByID(ctx, experienceID)
		if err != nil {
			return err
		}
		if exp == nil {
			return notFound("experience %s not found", meta.ExperienceID)
		}

		if booking == nil {
			traveler, err := tx.User.FindByID(ctx, travelerID)
			if err != nil {
				return err
			}
			if traveler == nil {
				return notFound("traveler %s not found", meta.TravelerID)
			}

			bookingID := uuid.New()
			booking = &entity.Booking{
				BaseSimple: entity.BaseSimple{
					ID:        bookingID,
					CreatedAt: now,
				},
				Reference:         utils.GenerateBookingRef(now, bookingID),
				ExperienceID:      experienceID,
				TravelerID:        travelerID,
				Guests:            meta.Guests,
				Date:              meta.Date,
				CheckoutSessionID: sess.ID,
				Paid:              true,
				TotalAmount:       meta.Amount,
				PaidAt:            &now,
			}
			if err := tx.Booking.Create(ctx, booking); err != nil {
				return err
			}
			s.log.Warn("Paid session had no local booking, recreated from metadata",
				zap.String("session_id", sess.ID),
				zap.String("booking_id", booking.ID.String()),
			)
		} else {
			flipped, err := tx.Booking.MarkPaid(ctx, booking.ID, now)
			if err != nil {
				return err
			}
			if !flipped {
				return nil
			}
			booking.Paid = true
			booking.PaidAt = &now
		}

		if err := tx.Availability.MarkBooked(ctx, booking.ExperienceID, booking.Date, booking.Guests); err != nil {
			return err
		}

		confirmed = booking
		return nil
	})
	if err != nil {
		s.log.Error("Payment confirmation failed", zap.Error(err), zap.String("session_id", sess.ID))
		return err
	}

	if confirmed == nil {
		s.log.Info("Payment already confirmed, event ignored", zap.String("session_id", sess.ID), zap.String("event_id", event.ID))
		return nil
	}

	s.log.Info("Booking paid",
		zap.String("booking_id", confirmed.ID.String()),
		zap.String("reference", confirmed.Reference),
		zap.String("date", confirmed.Date),
		zap.Int("guests", confirmed.Guests),
	)

	s.notifyConfirmed(ctx, confirmed, exp)
	return nil
}

func (s *bookingService) notifyConfirmed(ctx context.Context, booking *entity.Booking, exp *entity.Experience) {
	traveler, err := s.repo.User.FindByID(ctx, booking.TravelerID)
	if err != nil {
		s.log.Warn("Failed to load traveler for notification", zap.Error(err))
	}
	host, err := s.repo.User.FindByID(ctx, exp.HostID)
	if err != nil {
		s.log.Warn("Failed to load host for notification", zap.Error(err))
	}

	s.notifier.BookingConfirmed(ctx, booking, exp, traveler, host)
}

func (s *bookingService) list(ctx context.Context, filter repository.BookingFilter, page *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindAll(ctx, filter, page.Limit(), page.Offset())
	if err != nil {
		s.log.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	total, err := s.repo.Booking.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	titles := make(map[uuid.UUID]string)
	items := make([]response.BookingResponse, len(bookings))
	for i, b := range bookings {
		title, ok := titles[b.ExperienceID]
		if !ok {
			if exp, _ := s.repo.Experience.FindByID(ctx, b.ExperienceID); exp != nil {
				title = exp.TitleEN
			}
			titles[b.ExperienceID] = title
		}
		items[i] = response.BookingToResponse(b, title)
	}

	return response.NewPaginatedResponse(items, page.Page, page.PerPage, total), nil
}

func (s *bookingService) GetMyBookings(ctx context.Context, actor Actor, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}
	return s.list(ctx, repository.BookingFilter{TravelerID: actor.UserID}, req)
}

func bookingFilter(req *request.BookingListRequest) (repository.BookingFilter, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return repository.BookingFilter{}, validationError("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	filter := repository.BookingFilter{PaidOnly: req.PaidOnly}
	if req.ExperienceID != "" {
		filter.ExperienceID, _ = uuid.Parse(req.ExperienceID)
	}
	return filter, nil
}

func (s *bookingService) GetHostBookings(ctx context.Context, actor Actor, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}

	filter, err := bookingFilter(req)
	if err != nil {
		return nil, err
	}
	filter.HostID = actor.UserID

	return s.list(ctx, filter, &req.PaginatedRequest)
}

func (s *bookingService) GetAllBookings(ctx context.Context, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	filter, err := bookingFilter(req)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, filter, &req.PaginatedRequest)
}

// loadBooking returns the booking with its experience, visible to the
// traveler, the owning host and admins
func (s *bookingService) loadBooking(ctx context.Context, actor Actor, bookingID string) (*entity.Booking, *entity.Experience, error) {
	if err := requireAuth(actor); err != nil {
		return nil, nil, err
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, nil, validationError("invalid booking ID format %s", bookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("find booking: %w", err)
	}
	if booking == nil {
		return nil, nil, notFound("booking %s not found", bookingID)
	}

	exp, err := s.repo.Experience.FindByID(ctx, booking.ExperienceID)
	if err != nil {
		return nil, nil, fmt.Errorf("find experience: %w", err)
	}
	if exp == nil {
		return nil, nil, notFound("experience %s not found", booking.ExperienceID)
	}

	return booking, exp, nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, actor Actor, bookingID string) (*response.BookingResponse, error) {
	booking, exp, err := s.loadBooking(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.TravelerID != actor.UserID && !actor.CanManage(exp.HostID) {
		return nil, forbidden("not allowed to view this booking")
	}

	resp := response.BookingToResponse(booking, exp.TitleEN)
	return &resp, nil
}

func (s *bookingService) MessageTraveler(ctx context.Context, actor Actor, bookingID string, req *request.HostMessageRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationError("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	booking, exp, err := s.loadBooking(ctx, actor, bookingID)
	if err != nil {
		return err
	}
	if !actor.CanManage(exp.HostID) {
		return forbidden("only the owning host or an admin can message this traveler")
	}

	host, err := s.repo.User.FindByID(ctx, actor.UserID)
	if err != nil {
		return fmt.Errorf("load sender: %w", err)
	}
	if host == nil {
		return notFound("user %s not found", actor.UserID)
	}
	traveler, err := s.repo.User.FindByID(ctx, booking.TravelerID)
	if err != nil {
		return fmt.Errorf("load traveler: %w", err)
	}
	if traveler == nil {
		return notFound("traveler %s not found", booking.TravelerID)
	}

	s.notifier.HostMessage(ctx, booking, exp, host, traveler, req)

	s.log.Info("Host message sent",
		zap.String("booking_id", bookingID),
		zap.String("from", actor.UserID.String()),
	)
	return nil
}
