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

type HostApplicationService interface {
	Apply(ctx context.Context, actor Actor, req *request.CreateHostApplicationRequest) (*response.HostApplicationResponse, error)
	GetMyApplication(ctx context.Context, actor Actor) (*response.HostApplicationResponse, error)

	// Admin
	ListApplications(ctx context.Context, req *request.HostApplicationListRequest) (*response.PaginatedResponse[response.HostApplicationResponse], error)
	Approve(ctx context.Context, actor Actor, applicationID string, req *request.ReviewHostApplicationRequest) (*response.HostApplicationResponse, error)
	Reject(ctx context.Context, actor Actor, applicationID string, req *request.ReviewHostApplicationRequest) (*response.HostApplicationResponse, error)
}

type hostApplicationService struct {
	repo     *repository.Repository
	notifier NotificationService
	now      func() time.Time
	log      *zap.Logger
}

func NewHostApplicationService(repo *repository.Repository, notifier NotificationService, log *zap.Logger) HostApplicationService {
	return &hostApplicationService{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
		log:      log.With(zap.String("service", "host_application")),
	}
}

func (s *hostApplicationService) Apply(ctx context.Context, actor Actor, req *request.CreateHostApplicationRequest) (*response.HostApplicationResponse, error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	languages := make([]string, 0, len(req.Languages))
	for _, l := range req.Languages {
		languages = append(languages, strings.TrimSpace(l))
	}

	var app *entity.HostApplication
	err := s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		open, err := tx.HostApplication.FindOpenByUser(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if open != nil {
			if open.Status == entity.ApplicationApproved {
				return conflict("you are already an approved host")
			}
			return conflict("you already have a pending application")
		}

		user, err := tx.User.FindByID(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return notFound("user %s not found", actor.UserID)
		}
		if user.Role == entity.RoleHost || user.Role == entity.RoleAdmin {
			return conflict("you are already an approved host")
		}

		app = &entity.HostApplication{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: s.now(),
			},
			UserID: actor.UserID,
			Payload: entity.HostApplicationPayload{
				Bio:            strings.TrimSpace(req.Bio),
				Languages:      languages,
				ExperienceIdea: strings.TrimSpace(req.ExperienceIdea),
				Location:       strings.TrimSpace(req.Location),
				Phone:          strings.TrimSpace(req.Phone),
				Website:        req.Website,
			},
			Status: entity.ApplicationPending,
		}
		return tx.HostApplication.Create(ctx, app)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Host application submitted",
		zap.String("application_id", app.ID.String()),
		zap.String("user_id", actor.UserID.String()),
	)

	resp := response.HostApplicationToResponse(app)
	return &resp, nil
}

func (s *hostApplicationService) GetMyApplication(ctx context.Context, actor Actor) (*response.HostApplicationResponse, error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}

	app, err := s.repo.HostApplication.FindLatestByUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("find application: %w", err)
	}
	if app == nil {
		return nil, notFound("no host application found")
	}

	resp := response.HostApplicationToResponse(app)
	return &resp, nil
}

func (s *hostApplicationService) ListApplications(ctx context.Context, req *request.HostApplicationListRequest) (*response.PaginatedResponse[response.HostApplicationResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	status := entity.ApplicationStatus(req.Status)
	apps, err := s.repo.HostApplication.FindAll(ctx, status, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list host applications: %w", err)
	}

	total, err := s.repo.HostApplication.Count(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("count host applications: %w", err)
	}

	items := make([]response.HostApplicationResponse, len(apps))
	for i, app := range apps {
		items[i] = response.HostApplicationToResponse(app)
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

func (s *hostApplicationService) Approve(ctx context.Context, actor Actor, applicationID string, req *request.ReviewHostApplicationRequest) (*response.HostApplicationResponse, error) {
	return s.review(ctx, actor, applicationID, entity.ApplicationApproved, req)
}

func (s *hostApplicationService) Reject(ctx context.Context, actor Actor, applicationID string, req *request.ReviewHostApplicationRequest) (*response.HostApplicationResponse, error) {
	return s.review(ctx, actor, applicationID, entity.ApplicationRejected, req)
}

// review moves a pending application to its final status. Approval
// promotes the applicant to host in the same transaction.
func (s *hostApplicationService) review(ctx context.Context, actor Actor, applicationID string, status entity.ApplicationStatus, req *request.ReviewHostApplicationRequest) (*response.HostApplicationResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(applicationID)
	if err != nil {
		return nil, validationError("invalid application ID format %s", applicationID)
	}

	var (
		app       *entity.HostApplication
		applicant *entity.User
	)
	note := strings.TrimSpace(req.Note)
	now := s.now()

	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		app, err = tx.HostApplication.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if app == nil {
			return notFound("host application %s not found", applicationID)
		}

		reviewed, err := tx.HostApplication.Review(ctx, id, status, note, actor.UserID, now)
		if err != nil {
			return err
		}
		if !reviewed {
			return conflict("application is already %s", app.Status)
		}

		applicant, err = tx.User.FindByID(ctx, app.UserID)
		if err != nil {
			return err
		}
		if applicant == nil {
			return notFound("applicant %s not found", app.UserID)
		}

		if status == entity.ApplicationApproved && applicant.Role == entity.RoleTraveler {
			if err := tx.User.UpdateRole(ctx, applicant.ID, entity.RoleHost, false); err != nil {
				return err
			}
			applicant.Role = entity.RoleHost
			applicant.RoleSynced = false
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	app.Status = status
	app.ReviewNote = note
	app.ReviewedBy = &actor.UserID
	app.ReviewedAt = &now

	s.log.Info("Host application reviewed",
		zap.String("application_id", applicationID),
		zap.String("status", string(status)),
		zap.String("user_id", app.UserID.String()),
		zap.String("by", actor.UserID.String()),
	)

	s.notifier.ApplicationReviewed(ctx, app, applicant)

	resp := response.HostApplicationToResponse(app)
	return &resp, nil
}
