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

type ExperienceService interface {
	// Public
	ListExperiences(ctx context.Context, req *request.ExperienceListRequest) (*response.PaginatedResponse[response.ExperienceResponse], error)
	GetExperience(ctx context.Context, experienceID string) (*response.ExperienceResponse, error)

	// Host / admin
	CreateExperience(ctx context.Context, actor Actor, req *request.CreateExperienceRequest) (*response.ExperienceResponse, error)
	UpdateExperience(ctx context.Context, actor Actor, experienceID string, req *request.UpdateExperienceRequest) (*response.ExperienceResponse, error)
	UpdateStatus(ctx context.Context, actor Actor, experienceID string, req *request.UpdateExperienceStatusRequest) (*response.ExperienceResponse, error)
	DeleteExperience(ctx context.Context, actor Actor, experienceID string) error
	GetManagedExperience(ctx context.Context, actor Actor, experienceID string) (*response.ExperienceResponse, error)
	ListManagedExperiences(ctx context.Context, actor Actor, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ExperienceResponse], error)
}

type experienceService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewExperienceService(repo *repository.Repository, log *zap.Logger) ExperienceService {
	return &experienceService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "experience")),
	}
}

// loadManaged fetches an experience the actor is allowed to mutate
func loadManaged(ctx context.Context, repo *repository.Repository, actor Actor, experienceID string) (*entity.Experience, error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(experienceID)
	if err != nil {
		return nil, validationError("invalid experience ID format %s", experienceID)
	}

	exp, err := repo.Experience.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find experience: %w", err)
	}
	if exp == nil {
		return nil, notFound("experience %s not found", experienceID)
	}

	if !actor.CanManage(exp.HostID) {
		return nil, forbidden("only the owning host or an admin can manage this experience")
	}

	return exp, nil
}

func validateExperience(exp *entity.Experience) error {
	switch {
	case strings.TrimSpace(exp.TitleEN) == "" || strings.TrimSpace(exp.TitleES) == "":
		return validationError("titles in both languages are required")
	case exp.MaxGuests < 1:
		return validationError("max guests must be a positive integer")
	case exp.PriceUSD < 0:
		return validationError("price must not be negative")
	}
	return nil
}

func (s *experienceService) ListExperiences(ctx context.Context, req *request.ExperienceListRequest) (*response.PaginatedResponse[response.ExperienceResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	filter := repository.ExperienceFilter{
		Status:   entity.ExperienceStatusActive,
		Location: strings.TrimSpace(req.Location),
	}

	return s.list(ctx, filter, &req.PaginatedRequest)
}

func (s *experienceService) list(ctx context.Context, filter repository.ExperienceFilter, page *request.PaginatedRequest) (*response.PaginatedResponse[response.ExperienceResponse], error) {
	experiences, err := s.repo.Experience.FindAll(ctx, filter, page.Limit(), page.Offset())
	if err != nil {
		s.log.Error("Failed to list experiences", zap.Error(err))
		return nil, fmt.Errorf("list experiences: %w", err)
	}

	total, err := s.repo.Experience.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count experiences: %w", err)
	}

	items := make([]response.ExperienceResponse, len(experiences))
	for i, exp := range experiences {
		items[i] = response.ExperienceToResponse(exp)
	}

	return response.NewPaginatedResponse(items, page.Page, page.PerPage, total), nil
}

func (s *experienceService) GetExperience(ctx context.Context, experienceID string) (*response.ExperienceResponse, error) {
	id, err := uuid.Parse(experienceID)
	if err != nil {
		return nil, validationError("invalid experience ID format %s", experienceID)
	}

	exp, err := s.repo.Experience.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get experience: %w", err)
	}
	if exp == nil || exp.Status != entity.ExperienceStatusActive {
		return nil, notFound("experience %s not found", experienceID)
	}

	resp := response.ExperienceToResponse(exp)
	return &resp, nil
}

func (s *experienceService) CreateExperience(ctx context.Context, actor Actor, req *request.CreateExperienceRequest) (*response.ExperienceResponse, error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}
	if actor.Role != entity.RoleHost && !actor.IsAdmin() {
		return nil, forbidden("only hosts can create experiences")
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create experience validation failed", zap.Any("errors", errs))
		return nil, validationError("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	hostID := actor.UserID
	if req.HostID != "" && actor.IsAdmin() {
		id, err := uuid.Parse(req.HostID)
		if err != nil {
			return nil, validationError("invalid host ID format %s", req.HostID)
		}
		host, err := s.repo.User.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("find host: %w", err)
		}
		if host == nil {
			return nil, notFound("host %s not found", req.HostID)
		}
		hostID = id
	}

	status := entity.ExperienceStatusDraft
	if req.Status != "" {
		status = entity.ExperienceStatus(req.Status)
	}

	now := s.now()
	exp := &entity.Experience{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		HostID:        hostID,
		TitleEN:       strings.TrimSpace(req.TitleEN),
		TitleES:       strings.TrimSpace(req.TitleES),
		DescriptionEN: req.DescriptionEN,
		DescriptionES: req.DescriptionES,
		Location:      strings.TrimSpace(req.Location),
		MaxGuests:     req.MaxGuests,
		PriceUSD:      req.PriceUSD,
		ImageURL:      req.ImageURL,
		Status:        status,
	}
	if err := validateExperience(exp); err != nil {
		return nil, err
	}

	if err := s.repo.Experience.Create(ctx, exp); err != nil {
		return nil, fmt.Errorf("create experience: %w", err)
	}

	s.log.Info("Experience created",
		zap.String("experience_id", exp.ID.String()),
		zap.String("host_id", hostID.String()),
		zap.String("status", string(status)),
	)

	resp := response.ExperienceToResponse(exp)
	return &resp, nil
}

func (s *experienceService) UpdateExperience(ctx context.Context, actor Actor, experienceID string, req *request.UpdateExperienceRequest) (*response.ExperienceResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	exp, err := loadManaged(ctx, s.repo, actor, experienceID)
	if err != nil {
		return nil, err
	}

	if req.TitleEN != nil {
		exp.TitleEN = strings.TrimSpace(*req.TitleEN)
	}
	if req.TitleES != nil {
		exp.TitleES = strings.TrimSpace(*req.TitleES)
	}
	if req.DescriptionEN != nil {
		exp.DescriptionEN = *req.DescriptionEN
	}
	if req.DescriptionES != nil {
		exp.DescriptionES = *req.DescriptionES
	}
	if req.Location != nil {
		exp.Location = strings.TrimSpace(*req.Location)
	}
	if req.MaxGuests != nil {
		exp.MaxGuests = *req.MaxGuests
	}
	if req.PriceUSD != nil {
		exp.PriceUSD = *req.PriceUSD
	}
	if req.ImageURL != nil {
		exp.ImageURL = *req.ImageURL
	}
	if err := validateExperience(exp); err != nil {
		return nil, err
	}

	if err := s.repo.Experience.Update(ctx, exp); err != nil {
		return nil, fmt.Errorf("update experience: %w", err)
	}
	exp.UpdatedAt = s.now()

	s.log.Info("Experience updated", zap.String("experience_id", experienceID))

	resp := response.ExperienceToResponse(exp)
	return &resp, nil
}

func (s *experienceService) UpdateStatus(ctx context.Context, actor Actor, experienceID string, req *request.UpdateExperienceStatusRequest) (*response.ExperienceResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	exp, err := loadManaged(ctx, s.repo, actor, experienceID)
	if err != nil {
		return nil, err
	}

	status := entity.ExperienceStatus(req.Status)
	if exp.Status != status {
		if err := s.repo.Experience.UpdateStatus(ctx, exp.ID, status); err != nil {
			return nil, fmt.Errorf("update experience status: %w", err)
		}
		s.log.Info("Experience status changed",
			zap.String("experience_id", experienceID),
			zap.String("from", string(exp.Status)),
			zap.String("to", req.Status),
		)
		exp.Status = status
		exp.UpdatedAt = s.now()
	}

	resp := response.ExperienceToResponse(exp)
	return &resp, nil
}

func (s *experienceService) DeleteExperience(ctx context.Context, actor Actor, experienceID string) error {
	exp, err := loadManaged(ctx, s.repo, actor, experienceID)
	if err != nil {
		return err
	}

	bookings, err := s.repo.Booking.CountByExperience(ctx, exp.ID)
	if err != nil {
		return fmt.Errorf("count bookings: %w", err)
	}
	if bookings > 0 {
		return conflict("experience has bookings, set it inactive instead")
	}

	if err := s.repo.Experience.Delete(ctx, exp.ID); err != nil {
		return fmt.Errorf("delete experience: %w", err)
	}

	s.log.Info("Experience deleted",
		zap.String("experience_id", experienceID),
		zap.String("by", actor.UserID.String()),
	)
	return nil
}

func (s *experienceService) GetManagedExperience(ctx context.Context, actor Actor, experienceID string) (*response.ExperienceResponse, error) {
	exp, err := loadManaged(ctx, s.repo, actor, experienceID)
	if err != nil {
		return nil, err
	}

	resp := response.ExperienceToResponse(exp)
	return &resp, nil
}

// ListManagedExperiences lists the host's own experiences, or every
// experience for admins
func (s *experienceService) ListManagedExperiences(ctx context.Context, actor Actor, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ExperienceResponse], error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}

	var filter repository.ExperienceFilter
	if !actor.IsAdmin() {
		filter.HostID = actor.UserID
	}

	return s.list(ctx, filter, req)
}
