package usecase

import (
	"context"
	"fmt"
	"time"

	"experience-market/internal/data/entity"
	"experience-market/internal/data/repository"
	"experience-market/internal/dto/request"
	"experience-market/internal/dto/response"
	"experience-market/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxRangeDays bounds a single bulk update
const maxRangeDays = 366

type AvailabilityService interface {
	BulkUpdate(ctx context.Context, actor Actor, experienceID string, req *request.BulkAvailabilityRequest) (*response.BulkAvailabilityResponse, error)
	UpdateDate(ctx context.Context, actor Actor, experienceID string, req *request.DateAvailabilityRequest) (*response.DayAvailability, error)
	GetMonth(ctx context.Context, experienceID string, req *request.MonthAvailabilityRequest) (*response.MonthAvailabilityResponse, error)
}

type availabilityService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewAvailabilityService(repo *repository.Repository, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "availability")),
	}
}

func remaining(maxGuests, booked int) int {
	if r := maxGuests - booked; r > 0 {
		return r
	}
	return 0
}

func (s *availabilityService) BulkUpdate(ctx context.Context, actor Actor, experienceID string, req *request.BulkAvailabilityRequest) (*response.BulkAvailabilityResponse, error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	start, _ := utils.ParseDate(req.StartDate)
	end, _ := utils.ParseDate(req.EndDate)

	if req.StartDate < utils.FormatDate(s.now()) {
		return nil, validationError("start date %s is in the past", req.StartDate)
	}
	if start.After(end) {
		return nil, validationError("start date must not be after end date")
	}

	if span := utils.DaySpan(start, end); span > maxRangeDays {
		return nil, validationError("range covers %d days, at most %d allowed", span, maxRangeDays)
	}
	days := utils.DaysBetween(start, end)

	exp, err := loadManaged(ctx, s.repo, actor, experienceID)
	if err != nil {
		return nil, err
	}

	status := entity.AvailabilityStatus(req.Status)
	result := &response.BulkAvailabilityResponse{Skipped: []string{}}

	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		result.Updated = 0
		result.Skipped = result.Skipped[:0]
		for _, day := range days {
			written, err := tx.Availability.Upsert(ctx, exp.ID, day, status)
			if err != nil {
				return err
			}
			if !written {
				result.Skipped = append(result.Skipped, day)
				continue
			}
			result.Updated++
		}
		return nil
	})
	if err != nil {
		s.log.Error("Bulk availability update failed", zap.Error(err), zap.String("experience_id", experienceID))
		return nil, fmt.Errorf("bulk update availability: %w", err)
	}

	s.log.Info("Availability updated",
		zap.String("experience_id", experienceID),
		zap.String("start", req.StartDate),
		zap.String("end", req.EndDate),
		zap.String("status", req.Status),
		zap.Int("updated", result.Updated),
		zap.Int("skipped_booked", len(result.Skipped)),
	)

	return result, nil
}

func (s *availabilityService) UpdateDate(ctx context.Context, actor Actor, experienceID string, req *request.DateAvailabilityRequest) (*response.DayAvailability, error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError("validation failed: %s", utils.FormatValidationErrors(errs))
	}
	if req.Date < utils.FormatDate(s.now()) {
		return nil, validationError("date %s is in the past", req.Date)
	}

	exp, err := loadManaged(ctx, s.repo, actor, experienceID)
	if err != nil {
		return nil, err
	}

	status := entity.AvailabilityStatus(req.Status)
	var day *entity.Availability

	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		written, err := tx.Availability.Upsert(ctx, exp.ID, req.Date, status)
		if err != nil {
			return err
		}
		if !written {
			return conflict("date %s is booked and cannot be changed", req.Date)
		}
		day, err = tx.Availability.FindByDate(ctx, exp.ID, req.Date)
		return err
	})
	if err != nil {
		return nil, err
	}

	booked := 0
	if day != nil {
		booked = day.BookedGuests
	}

	s.log.Info("Availability date updated",
		zap.String("experience_id", experienceID),
		zap.String("date", req.Date),
		zap.String("status", req.Status),
	)

	return &response.DayAvailability{
		Date:         req.Date,
		Status:       req.Status,
		BookedGuests: booked,
		Remaining:    remaining(exp.MaxGuests, booked),
	}, nil
}

func (s *availabilityService) GetMonth(ctx context.Context, experienceID string, req *request.MonthAvailabilityRequest) (*response.MonthAvailabilityResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(experienceID)
	if err != nil {
		return nil, validationError("invalid experience ID format %s", experienceID)
	}

	exp, err := s.repo.Experience.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find experience: %w", err)
	}
	if exp == nil {
		return nil, notFound("experience %s not found", experienceID)
	}

	first, _ := utils.ParseYearMonth(req.Month)
	days := utils.DaysInMonth(first)

	stored, err := s.repo.Availability.FindRange(ctx, id, days[0], days[len(days)-1])
	if err != nil {
		return nil, fmt.Errorf("find availability: %w", err)
	}

	byDate := make(map[string]*entity.Availability, len(stored))
	for _, a := range stored {
		byDate[a.Date] = a
	}

	result := &response.MonthAvailabilityResponse{
		ExperienceID: experienceID,
		Month:        req.Month,
		MaxGuests:    exp.MaxGuests,
		Days:         make([]response.DayAvailability, len(days)),
	}
	for i, day := range days {
		entry := response.DayAvailability{
			Date:      day,
			Status:    string(entity.AvailabilityAvailable),
			Remaining: exp.MaxGuests,
		}
		if a, ok := byDate[day]; ok {
			entry.Status = string(a.Status)
			entry.BookedGuests = a.BookedGuests
			entry.Remaining = remaining(exp.MaxGuests, a.BookedGuests)
		}
		result.Days[i] = entry
	}

	return result, nil
}
