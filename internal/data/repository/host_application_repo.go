package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"experience-market/internal/data/entity"
	"experience-market/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type HostApplicationRepository interface {
	Create(ctx context.Context, app *entity.HostApplication) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.HostApplication, error)
	// FindLatestByUser returns the most recent application of a user
	FindLatestByUser(ctx context.Context, userID uuid.UUID) (*entity.HostApplication, error)
	FindOpenByUser(ctx context.Context, userID uuid.UUID) (*entity.HostApplication, error)
	FindAll(ctx context.Context, status entity.ApplicationStatus, limit, offset int) ([]*entity.HostApplication, error)
	Count(ctx context.Context, status entity.ApplicationStatus) (int64, error)
	// Review moves a pending application to status. Reports false when
	// the application was no longer pending.
	Review(ctx context.Context, id uuid.UUID, status entity.ApplicationStatus, note string, reviewer uuid.UUID, reviewedAt time.Time) (bool, error)
}

type hostApplicationRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewHostApplicationRepository(db database.DBTX, log *zap.Logger) HostApplicationRepository {
	return &hostApplicationRepository{
		db:  db,
		log: log.With(zap.String("repository", "host_application")),
	}
}

const hostApplicationColumns = `id, user_id, payload, status, review_note, reviewed_by, reviewed_at, created_at`

func scanHostApplication(row pgx.Row) (*entity.HostApplication, error) {
	var (
		app     entity.HostApplication
		payload []byte
	)
	err := row.Scan(
		&app.ID,
		&app.UserID,
		&payload,
		&app.Status,
		&app.ReviewNote,
		&app.ReviewedBy,
		&app.ReviewedAt,
		&app.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(payload, &app.Payload); err != nil {
		return nil, fmt.Errorf("decode application payload: %w", err)
	}

	return &app, nil
}

func (r *hostApplicationRepository) Create(ctx context.Context, app *entity.HostApplication) error {
	payload, err := json.Marshal(app.Payload)
	if err != nil {
		return fmt.Errorf("encode application payload: %w", err)
	}

	query := `
		INSERT INTO host_applications (id, user_id, payload, status, review_note, created_at)
		VALUES ($1, $2, $3, $4, '', $5)
	`

	_, err = r.db.Exec(ctx, query, app.ID, app.UserID, payload, app.Status, app.CreatedAt)
	if err != nil {
		r.log.Error("Failed to create host application",
			zap.Error(err),
			zap.String("user_id", app.UserID.String()),
		)
		return fmt.Errorf("create host application for %s: %w", app.UserID, err)
	}

	return nil
}

func (r *hostApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.HostApplication, error) {
	query := `SELECT ` + hostApplicationColumns + ` FROM host_applications WHERE id = $1`

	app, err := scanHostApplication(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find host application", zap.Error(err), zap.String("application_id", id.String()))
		return nil, fmt.Errorf("find host application %s: %w", id, err)
	}

	return app, nil
}

func (r *hostApplicationRepository) FindLatestByUser(ctx context.Context, userID uuid.UUID) (*entity.HostApplication, error) {
	query := `
		SELECT ` + hostApplicationColumns + `
		FROM host_applications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	app, err := scanHostApplication(r.db.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find latest host application", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find latest host application of %s: %w", userID, err)
	}

	return app, nil
}

// FindOpenByUser returns the pending or approved application of a user
func (r *hostApplicationRepository) FindOpenByUser(ctx context.Context, userID uuid.UUID) (*entity.HostApplication, error) {
	query := `
		SELECT ` + hostApplicationColumns + `
		FROM host_applications
		WHERE user_id = $1 AND status IN ('pending', 'approved')
		LIMIT 1
	`

	app, err := scanHostApplication(r.db.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find open host application", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find open host application of %s: %w", userID, err)
	}

	return app, nil
}

func (r *hostApplicationRepository) FindAll(ctx context.Context, status entity.ApplicationStatus, limit, offset int) ([]*entity.HostApplication, error) {
	query := `
		SELECT ` + hostApplicationColumns + `
		FROM host_applications
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, string(status), limit, offset)
	if err != nil {
		r.log.Error("Failed to find host applications", zap.Error(err))
		return nil, fmt.Errorf("find host applications: %w", err)
	}
	defer rows.Close()

	var apps []*entity.HostApplication
	for rows.Next() {
		app, err := scanHostApplication(rows)
		if err != nil {
			r.log.Error("Failed to scan host application row", zap.Error(err))
			return nil, fmt.Errorf("scan host application row: %w", err)
		}
		apps = append(apps, app)
	}

	return apps, rows.Err()
}

func (r *hostApplicationRepository) Count(ctx context.Context, status entity.ApplicationStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM host_applications WHERE ($1 = '' OR status = $1)`

	var count int64
	if err := r.db.QueryRow(ctx, query, string(status)).Scan(&count); err != nil {
		r.log.Error("Failed to count host applications", zap.Error(err))
		return 0, fmt.Errorf("count host applications: %w", err)
	}

	return count, nil
}

func (r *hostApplicationRepository) Review(ctx context.Context, id uuid.UUID, status entity.ApplicationStatus, note string, reviewer uuid.UUID, reviewedAt time.Time) (bool, error) {
	query := `
		UPDATE host_applications
		SET status = $2, review_note = $3, reviewed_by = $4, reviewed_at = $5
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.db.Exec(ctx, query, id, status, note, reviewer, reviewedAt)
	if err != nil {
		r.log.Error("Failed to review host application",
			zap.Error(err),
			zap.String("application_id", id.String()),
			zap.String("status", string(status)),
		)
		return false, fmt.Errorf("review host application %s: %w", id, err)
	}

	return result.RowsAffected() > 0, nil
}
