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

// BookingFilter narrows booking listings. Zero values match everything.
type BookingFilter struct {
	TravelerID   uuid.UUID
	HostID       uuid.UUID
	ExperienceID uuid.UUID
	PaidOnly     bool
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindBySessionID(ctx context.Context, sessionID string) (*entity.Booking, error)
	FindAll(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.Booking, error)
	Count(ctx context.Context, filter BookingFilter) (int64, error)
	MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) (bool, error)
	CountByExperience(ctx context.Context, experienceID uuid.UUID) (int64, error)
}

type bookingRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewBookingRepository(db database.DBTX, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `b.id, b.reference, b.experience_id, b.traveler_id, b.guests, b.date,
	b.checkout_session_id, b.paid, b.total_amount, b.paid_at, b.created_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.Reference,
		&b.ExperienceID,
		&b.TravelerID,
		&b.Guests,
		&b.Date,
		&b.CheckoutSessionID,
		&b.Paid,
		&b.TotalAmount,
		&b.PaidAt,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, reference, experience_id, traveler_id, guests, date,
			checkout_session_id, paid, total_amount, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.Reference,
		booking.ExperienceID,
		booking.TravelerID,
		booking.Guests,
		booking.Date,
		booking.CheckoutSessionID,
		booking.Paid,
		booking.TotalAmount,
		booking.PaidAt,
		booking.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("reference", booking.Reference),
			zap.String("session_id", booking.CheckoutSessionID),
		)
		return fmt.Errorf("create booking %s: %w", booking.Reference, err)
	}

	r.log.Debug("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.Bool("paid", booking.Paid),
	)

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1`

	b, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID", zap.Error(err), zap.String("booking_id", id.String()))
		return nil, fmt.Errorf("find booking by ID %s: %w", id, err)
	}

	return b, nil
}

func (r *bookingRepository) FindBySessionID(ctx context.Context, sessionID string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.checkout_session_id = $1`

	b, err := scanBooking(r.db.QueryRow(ctx, query, sessionID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by session", zap.Error(err), zap.String("session_id", sessionID))
		return nil, fmt.Errorf("find booking by session %s: %w", sessionID, err)
	}

	return b, nil
}

func (f BookingFilter) args() []any {
	nullable := func(id uuid.UUID) any {
		if id == uuid.Nil {
			return nil
		}
		return id
	}
	return []any{nullable(f.TravelerID), nullable(f.HostID), nullable(f.ExperienceID), f.PaidOnly}
}

const bookingFrom = `
	FROM bookings b
	JOIN experiences e ON e.id = b.experience_id
	WHERE ($1::uuid IS NULL OR b.traveler_id = $1)
	  AND ($2::uuid IS NULL OR e.host_id = $2)
	  AND ($3::uuid IS NULL OR b.experience_id = $3)
	  AND (NOT $4::boolean OR b.paid)
`

func (r *bookingRepository) FindAll(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + bookingFrom + `
		ORDER BY b.created_at DESC
		LIMIT $5 OFFSET $6
	`

	args := append(filter.args(), limit, offset)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find bookings", zap.Error(err))
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

func (r *bookingRepository) Count(ctx context.Context, filter BookingFilter) (int64, error) {
	query := `SELECT COUNT(*)` + bookingFrom

	var count int64
	if err := r.db.QueryRow(ctx, query, filter.args()...).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return count, nil
}

// MarkPaid flips an unpaid booking to paid. Reports false when the
// booking was already paid.
func (r *bookingRepository) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) (bool, error) {
	query := `UPDATE bookings SET paid = TRUE, paid_at = $2 WHERE id = $1 AND paid = FALSE`

	result, err := r.db.Exec(ctx, query, id, paidAt)
	if err != nil {
		r.log.Error("Failed to mark booking paid", zap.Error(err), zap.String("booking_id", id.String()))
		return false, fmt.Errorf("mark booking %s paid: %w", id, err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *bookingRepository) CountByExperience(ctx context.Context, experienceID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE experience_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, experienceID).Scan(&count); err != nil {
		r.log.Error("Failed to count experience bookings", zap.Error(err), zap.String("experience_id", experienceID.String()))
		return 0, fmt.Errorf("count bookings of %s: %w", experienceID, err)
	}

	return count, nil
}
