package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"experience-market/internal/data/entity"
	"experience-market/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CancellationRepository interface {
	Create(ctx context.Context, req *entity.CancellationRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.CancellationRequest, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.CancellationRequest, error)
	// FindAll lists requests, filtered by processed state when processed is non-nil
	FindAll(ctx context.Context, processed *bool, limit, offset int) ([]*entity.CancellationRequest, error)
	Count(ctx context.Context, processed *bool) (int64, error)
	MarkProcessed(ctx context.Context, id uuid.UUID, processedAt time.Time) (bool, error)
}

type cancellationRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewCancellationRepository(db database.DBTX, log *zap.Logger) CancellationRepository {
	return &cancellationRepository{
		db:  db,
		log: log.With(zap.String("repository", "cancellation")),
	}
}

const cancellationColumns = `id, booking_id, traveler_id, reason, processed, requested_at, processed_at`

func scanCancellation(row pgx.Row) (*entity.CancellationRequest, error) {
	var c entity.CancellationRequest
	err := row.Scan(
		&c.ID,
		&c.BookingID,
		&c.TravelerID,
		&c.Reason,
		&c.Processed,
		&c.RequestedAt,
		&c.ProcessedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cancellationRepository) Create(ctx context.Context, req *entity.CancellationRequest) error {
	query := `
		INSERT INTO cancellation_requests (id, booking_id, traveler_id, reason, processed, requested_at)
		VALUES ($1, $2, $3, $4, FALSE, $5)
	`

	_, err := r.db.Exec(ctx, query, req.ID, req.BookingID, req.TravelerID, req.Reason, req.RequestedAt)
	if err != nil {
		r.log.Error("Failed to create cancellation request",
			zap.Error(err),
			zap.String("booking_id", req.BookingID.String()),
		)
		return fmt.Errorf("create cancellation request for %s: %w", req.BookingID, err)
	}

	return nil
}

func (r *cancellationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.CancellationRequest, error) {
	query := `SELECT ` + cancellationColumns + ` FROM cancellation_requests WHERE id = $1`

	c, err := scanCancellation(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find cancellation request", zap.Error(err), zap.String("request_id", id.String()))
		return nil, fmt.Errorf("find cancellation request %s: %w", id, err)
	}

	return c, nil
}

func (r *cancellationRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.CancellationRequest, error) {
	query := `SELECT ` + cancellationColumns + ` FROM cancellation_requests WHERE booking_id = $1`

	c, err := scanCancellation(r.db.QueryRow(ctx, query, bookingID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find cancellation request by booking", zap.Error(err), zap.String("booking_id", bookingID.String()))
		return nil, fmt.Errorf("find cancellation request for booking %s: %w", bookingID, err)
	}

	return c, nil
}

func (r *cancellationRepository) FindAll(ctx context.Context, processed *bool, limit, offset int) ([]*entity.CancellationRequest, error) {
	query := `
		SELECT ` + cancellationColumns + `
		FROM cancellation_requests
		WHERE ($1::boolean IS NULL OR processed = $1)
		ORDER BY requested_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, processed, limit, offset)
	if err != nil {
		r.log.Error("Failed to find cancellation requests", zap.Error(err))
		return nil, fmt.Errorf("find cancellation requests: %w", err)
	}
	defer rows.Close()

	var requests []*entity.CancellationRequest
	for rows.Next() {
		c, err := scanCancellation(rows)
		if err != nil {
			r.log.Error("Failed to scan cancellation request row", zap.Error(err))
			return nil, fmt.Errorf("scan cancellation request row: %w", err)
		}
		requests = append(requests, c)
	}

	return requests, rows.Err()
}

func (r *cancellationRepository) Count(ctx context.Context, processed *bool) (int64, error) {
	query := `SELECT COUNT(*) FROM cancellation_requests WHERE ($1::boolean IS NULL OR processed = $1)`

	var count int64
	if err := r.db.QueryRow(ctx, query, processed).Scan(&count); err != nil {
		r.log.Error("Failed to count cancellation requests", zap.Error(err))
		return 0, fmt.Errorf("count cancellation requests: %w", err)
	}

	return count, nil
}

// MarkProcessed reports false when the request was already processed
func (r *cancellationRepository) MarkProcessed(ctx context.Context, id uuid.UUID, processedAt time.Time) (bool, error) {
	query := `
		UPDATE cancellation_requests
		SET processed = TRUE, processed_at = $2
		WHERE id = $1 AND processed = FALSE
	`

	result, err := r.db.Exec(ctx, query, id, processedAt)
	if err != nil {
		r.log.Error("Failed to mark cancellation request processed", zap.Error(err), zap.String("request_id", id.String()))
		return false, fmt.Errorf("mark cancellation request %s processed: %w", id, err)
	}

	return result.RowsAffected() > 0, nil
}
