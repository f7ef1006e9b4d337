package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"experience-market/internal/data/entity"
	"experience-market/internal/data/repository"
	"experience-market/internal/dto/request"
	"experience-market/internal/dto/response"
	"experience-market/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CancellationService manages the manual cancellation queue. Processing a
// request is bookkeeping only: bookings and availability are untouched.
type CancellationService interface {
	CreateRequest(ctx context.Context, actor Actor, bookingID string, req *request.CreateCancellationRequest) (*response.CancellationResponse, error)

	// Admin
	ListRequests(ctx context.Context, req *request.CancellationListRequest) (*response.PaginatedResponse[response.CancellationResponse], error)
	MarkProcessed(ctx context.Context, actor Actor, requestID string) (*response.CancellationResponse, error)
}

type cancellationService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewCancellationService(repo *repository.Repository, log *zap.Logger) CancellationService {
	return &cancellationService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "cancellation")),
	}
}

func (s *cancellationService) CreateRequest(ctx context.Context, actor Actor, bookingID string, req *request.CreateCancellationRequest) (*response.CancellationResponse, error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, validationError("invalid booking ID format %s", bookingID)
	}

	var created *entity.CancellationRequest
	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		booking, err := tx.Booking.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if booking == nil {
			return notFound("booking %s not found", bookingID)
		}
		if booking.TravelerID != actor.UserID {
			return forbidden("you can only cancel your own bookings")
		}

		existing, err := tx.Cancellation.FindByBookingID(ctx, id)
		if err != nil {
			return err
		}
		if existing != nil {
			return conflict("cancellation request already exists")
		}

		created = &entity.CancellationRequest{
			ID:          uuid.New(),
			BookingID:   id,
			TravelerID:  actor.UserID,
			Reason:      strings.TrimSpace(req.Reason),
			RequestedAt: s.now(),
		}
		return tx.Cancellation.Create(ctx, created)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Cancellation requested",
		zap.String("request_id", created.ID.String()),
		zap.String("booking_id", bookingID),
	)

	resp := response.CancellationToResponse(created)
	return &resp, nil
}

func (s *cancellationService) ListRequests(ctx context.Context, req *request.CancellationListRequest) (*response.PaginatedResponse[response.CancellationResponse], error) {
	requests, err := s.repo.Cancellation.FindAll(ctx, req.Processed, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list cancellation requests: %w", err)
	}

	total, err := s.repo.Cancellation.Count(ctx, req.Processed)
	if err != nil {
		return nil, fmt.Errorf("count cancellation requests: %w", err)
	}

	items := make([]response.CancellationResponse, len(requests))
	for i, r := range requests {
		items[i] = response.CancellationToResponse(r)
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

func (s *cancellationService) MarkProcessed(ctx context.Context, actor Actor, requestID string) (*response.CancellationResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(requestID)
	if err != nil {
		return nil, validationError("invalid request ID format %s", requestID)
	}

	cr, err := s.repo.Cancellation.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find cancellation request: %w", err)
	}
	if cr == nil {
		return nil, notFound("cancellation request %s not found", requestID)
	}

	now := s.now()
	updated, err := s.repo.Cancellation.MarkProcessed(ctx, id, now)
	if err != nil {
		return nil, fmt.Errorf("mark processed: %w", err)
	}
	if !updated {
		return nil, conflict("cancellation request already processed")
	}

	cr.Processed = true
	cr.ProcessedAt = &now

	s.log.Info("Cancellation request processed",
		zap.String("request_id", requestID),
		zap.String("booking_id", cr.BookingID.String()),
		zap.String("by", actor.UserID.String()),
	)

	resp := response.CancellationToResponse(cr)
	return &resp, nil
}
