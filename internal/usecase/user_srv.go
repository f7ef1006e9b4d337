package usecase

import (
	"context"
	"fmt"
	"time"

	"experience-market/internal/data/entity"
	"experience-market/internal/data/repository"
	"experience-market/internal/dto/request"
	"experience-market/internal/dto/response"
	"experience-market/pkg/identity"
	"experience-market/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SignIn is the identity asserted by a verified session token
type SignIn struct {
	ExternalID string
	Email      string
	Name       string
	Role       string
	IssuedAt   time.Time
}

type UserService interface {
	// EnsureUser mirrors the caller into the directory on every request
	EnsureUser(ctx context.Context, in SignIn) (*entity.User, error)
	GetProfile(ctx context.Context, actor Actor) (*response.UserResponse, error)

	// Admin
	ListUsers(ctx context.Context, req *request.UserListRequest) (*response.PaginatedResponse[response.UserResponse], error)
	UpdateRole(ctx context.Context, actor Actor, userID string, req *request.UpdateUserRoleRequest) (*response.UserResponse, error)

	// SyncPendingRoles pushes unsynced roles to the identity provider
	SyncPendingRoles(ctx context.Context, batch int) (int, error)
}

type userService struct {
	repo  *repository.Repository
	roles identity.RoleWriter
	now   func() time.Time
	log   *zap.Logger
}

func NewUserService(repo *repository.Repository, roles identity.RoleWriter, log *zap.Logger) UserService {
	return &userService{
		repo:  repo,
		roles: roles,
		now:   time.Now,
		log:   log.With(zap.String("service", "user")),
	}
}

func (s *userService) EnsureUser(ctx context.Context, in SignIn) (*entity.User, error) {
	if in.ExternalID == "" {
		return nil, newError(ErrUnauthenticated, "missing subject")
	}

	user, err := s.repo.User.FindByExternalID(ctx, in.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	claimRole := entity.UserRole(in.Role)

	if user == nil {
		role := entity.RoleTraveler
		if claimRole.Valid() {
			role = claimRole
		}

		now := s.now()
		user = &entity.User{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			ExternalID: in.ExternalID,
			Email:      in.Email,
			Name:       in.Name,
			Role:       role,
			// the provider learns about the default role on the next sync
			RoleSynced: role == claimRole,
		}

		if err := s.repo.User.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}

		// a concurrent first request may have won the insert
		user, err = s.repo.User.FindByExternalID(ctx, in.ExternalID)
		if err != nil {
			return nil, fmt.Errorf("reload user %s: %w", in.ExternalID, err)
		}
		if user == nil {
			return nil, fmt.Errorf("user %s missing after insert", in.ExternalID)
		}

		s.log.Info("User registered from identity provider",
			zap.String("user_id", user.ID.String()),
			zap.String("role", string(user.Role)),
		)
		return user, nil
	}

	if (in.Email != "" && in.Email != user.Email) || (in.Name != "" && in.Name != user.Name) {
		email, name := user.Email, user.Name
		if in.Email != "" {
			email = in.Email
		}
		if in.Name != "" {
			name = in.Name
		}
		if err := s.repo.User.UpdateProfile(ctx, user.ID, email, name); err != nil {
			s.log.Warn("Failed to refresh user profile", zap.Error(err), zap.String("user_id", user.ID.String()))
		} else {
			user.Email, user.Name = email, name
		}
	}

	// Inward reconciliation: only tokens issued after the last local change
	// are trusted, and never while an outbound sync is pending.
	if claimRole.Valid() && claimRole != user.Role && user.RoleSynced &&
		!in.IssuedAt.IsZero() && in.IssuedAt.After(user.UpdatedAt) {
		if err := s.repo.User.UpdateRole(ctx, user.ID, claimRole, true); err != nil {
			s.log.Warn("Failed to reconcile role from identity provider", zap.Error(err), zap.String("user_id", user.ID.String()))
		} else {
			s.log.Info("Role reconciled from identity provider",
				zap.String("user_id", user.ID.String()),
				zap.String("from", string(user.Role)),
				zap.String("to", string(claimRole)),
			)
			user.Role = claimRole
		}
	}

	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, actor Actor) (*response.UserResponse, error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if user == nil {
		return nil, notFound("user %s not found", actor.UserID)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) ListUsers(ctx context.Context, req *request.UserListRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	users, err := s.repo.User.FindAll(ctx, req.Role, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	total, err := s.repo.User.Count(ctx, req.Role)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	items := make([]response.UserResponse, len(users))
	for i, u := range users {
		items[i] = response.UserToResponse(u)
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

func (s *userService) UpdateRole(ctx context.Context, actor Actor, userID string, req *request.UpdateUserRoleRequest) (*response.UserResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, validationError("invalid user ID format %s", userID)
	}
	if id == actor.UserID {
		return nil, conflict("admins cannot change their own role")
	}

	user, err := s.repo.User.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, notFound("user %s not found", userID)
	}

	role := entity.UserRole(req.Role)
	if user.Role != role {
		if err := s.repo.User.UpdateRole(ctx, id, role, false); err != nil {
			return nil, fmt.Errorf("update role: %w", err)
		}
		s.log.Info("User role changed",
			zap.String("user_id", userID),
			zap.String("from", string(user.Role)),
			zap.String("to", req.Role),
			zap.String("by", actor.UserID.String()),
		)
		user.Role = role
		user.RoleSynced = false
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) SyncPendingRoles(ctx context.Context, batch int) (int, error) {
	if s.roles == nil {
		return 0, nil
	}
	if batch < 1 {
		batch = 50
	}

	users, err := s.repo.User.FindRoleUnsynced(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("find unsynced users: %w", err)
	}

	synced := 0
	for _, user := range users {
		if ctx.Err() != nil {
			return synced, ctx.Err()
		}

		if err := s.roles.UpdateRole(ctx, user.ExternalID, string(user.Role)); err != nil {
			s.log.Warn("Role sync failed, will retry",
				zap.Error(err),
				zap.String("user_id", user.ID.String()),
				zap.String("role", string(user.Role)),
			)
			continue
		}

		marked, err := s.repo.User.MarkRoleSynced(ctx, user.ID, user.Role)
		if err != nil {
			s.log.Warn("Failed to mark role synced", zap.Error(err), zap.String("user_id", user.ID.String()))
			continue
		}
		if marked {
			synced++
		}
	}

	if synced > 0 {
		s.log.Info("Roles synced to identity provider", zap.Int("count", synced), zap.Int("batch", len(users)))
	}

	return synced, nil
}
