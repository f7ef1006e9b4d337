package repository

import (
	"context"
	"errors"
	"fmt"

	"experience-market/internal/data/entity"
	"experience-market/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByExternalID(ctx context.Context, externalID string) (*entity.User, error)
	FindAll(ctx context.Context, role string, limit, offset int) ([]*entity.User, error)
	Count(ctx context.Context, role string) (int64, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, email, name string) error
	UpdateRole(ctx context.Context, id uuid.UUID, role entity.UserRole, synced bool) error

	// Role sync with the identity provider
	FindRoleUnsynced(ctx context.Context, limit int) ([]*entity.User, error)
	MarkRoleSynced(ctx context.Context, id uuid.UUID, role entity.UserRole) (bool, error)
}

type userRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewUserRepository(db database.DBTX, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

const userColumns = `id, external_id, email, name, role, role_synced, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.ExternalID,
		&user.Email,
		&user.Name,
		&user.Role,
		&user.RoleSynced,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts the user. A concurrent first sign-in for the same
// external id is absorbed by the unique constraint.
func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, external_id, email, name, role, role_synced, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (external_id) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.ExternalID,
		user.Email,
		user.Name,
		user.Role,
		user.RoleSynced,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("external_id", user.ExternalID),
		)
		return fmt.Errorf("create user %s: %w", user.ExternalID, err)
	}

	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find user by ID", zap.Error(err), zap.String("user_id", id.String()))
		return nil, fmt.Errorf("find user by ID %s: %w", id, err)
	}

	return user, nil
}

func (r *userRepository) FindByExternalID(ctx context.Context, externalID string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE external_id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, externalID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find user by external ID", zap.Error(err), zap.String("external_id", externalID))
		return nil, fmt.Errorf("find user by external ID %s: %w", externalID, err)
	}

	return user, nil
}

func (r *userRepository) FindAll(ctx context.Context, role string, limit, offset int) ([]*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE ($1 = '' OR role = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, role, limit, offset)
	if err != nil {
		r.log.Error("Failed to find users", zap.Error(err), zap.String("role", role))
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			r.log.Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (r *userRepository) Count(ctx context.Context, role string) (int64, error) {
	query := `SELECT COUNT(*) FROM users WHERE ($1 = '' OR role = $1)`

	var count int64
	if err := r.db.QueryRow(ctx, query, role).Scan(&count); err != nil {
		r.log.Error("Failed to count users", zap.Error(err))
		return 0, fmt.Errorf("count users: %w", err)
	}

	return count, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id uuid.UUID, email, name string) error {
	query := `UPDATE users SET email = $2, name = $3, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, email, name)
	if err != nil {
		r.log.Error("Failed to update user profile", zap.Error(err), zap.String("user_id", id.String()))
		return fmt.Errorf("update user %s profile: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", id)
	}

	return nil
}

func (r *userRepository) UpdateRole(ctx context.Context, id uuid.UUID, role entity.UserRole, synced bool) error {
	query := `UPDATE users SET role = $2, role_synced = $3, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, role, synced)
	if err != nil {
		r.log.Error("Failed to update user role",
			zap.Error(err),
			zap.String("user_id", id.String()),
			zap.String("role", string(role)),
		)
		return fmt.Errorf("update user %s role to %s: %w", id, role, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", id)
	}

	return nil
}

func (r *userRepository) FindRoleUnsynced(ctx context.Context, limit int) ([]*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE role_synced = FALSE
		ORDER BY updated_at
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.log.Error("Failed to find unsynced users", zap.Error(err))
		return nil, fmt.Errorf("find unsynced users: %w", err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			r.log.Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// MarkRoleSynced flags the user synced only if the role did not change
// again while it was being pushed. Reports whether the row was updated.
func (r *userRepository) MarkRoleSynced(ctx context.Context, id uuid.UUID, role entity.UserRole) (bool, error) {
	query := `UPDATE users SET role_synced = TRUE WHERE id = $1 AND role = $2 AND role_synced = FALSE`

	result, err := r.db.Exec(ctx, query, id, role)
	if err != nil {
		r.log.Error("Failed to mark role synced", zap.Error(err), zap.String("user_id", id.String()))
		return false, fmt.Errorf("mark user %s role synced: %w", id, err)
	}

	return result.RowsAffected() > 0, nil
}
