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

type AvailabilityRepository interface {
	FindByDate(ctx context.Context, experienceID uuid.UUID, date string) (*entity.Availability, error)
	FindRange(ctx context.Context, experienceID uuid.UUID, from, to string) ([]*entity.Availability, error)
	// Upsert sets the status of a day unless it is already booked.
	// Reports whether a row was written.
	Upsert(ctx context.Context, experienceID uuid.UUID, date string, status entity.AvailabilityStatus) (bool, error)
	// MarkBooked creates or patches the day to booked and adds guests
	MarkBooked(ctx context.Context, experienceID uuid.UUID, date string, guests int) error
}

type availabilityRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewAvailabilityRepository(db database.DBTX, log *zap.Logger) AvailabilityRepository {
	return &availabilityRepository{
		db:  db,
		log: log.With(zap.String("repository", "availability")),
	}
}

func scanAvailability(row pgx.Row) (*entity.Availability, error) {
	var a entity.Availability
	if err := row.Scan(&a.ExperienceID, &a.Date, &a.Status, &a.BookedGuests, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *availabilityRepository) FindByDate(ctx context.Context, experienceID uuid.UUID, date string) (*entity.Availability, error) {
	query := `
		SELECT experience_id, date, status, booked_guests, updated_at
		FROM availability
		WHERE experience_id = $1 AND date = $2
	`

	a, err := scanAvailability(r.db.QueryRow(ctx, query, experienceID, date))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find availability",
			zap.Error(err),
			zap.String("experience_id", experienceID.String()),
			zap.String("date", date),
		)
		return nil, fmt.Errorf("find availability %s on %s: %w", experienceID, date, err)
	}

	return a, nil
}

// FindRange returns the stored days between from and to inclusive
func (r *availabilityRepository) FindRange(ctx context.Context, experienceID uuid.UUID, from, to string) ([]*entity.Availability, error) {
	query := `
		SELECT experience_id, date, status, booked_guests, updated_at
		FROM availability
		WHERE experience_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`

	rows, err := r.db.Query(ctx, query, experienceID, from, to)
	if err != nil {
		r.log.Error("Failed to find availability range",
			zap.Error(err),
			zap.String("experience_id", experienceID.String()),
		)
		return nil, fmt.Errorf("find availability %s from %s to %s: %w", experienceID, from, to, err)
	}
	defer rows.Close()

	var days []*entity.Availability
	for rows.Next() {
		a, err := scanAvailability(rows)
		if err != nil {
			r.log.Error("Failed to scan availability row", zap.Error(err))
			return nil, fmt.Errorf("scan availability row: %w", err)
		}
		days = append(days, a)
	}

	return days, rows.Err()
}

func (r *availabilityRepository) Upsert(ctx context.Context, experienceID uuid.UUID, date string, status entity.AvailabilityStatus) (bool, error) {
	query := `
		INSERT INTO availability (experience_id, date, status, booked_guests, updated_at)
		VALUES ($1, $2, $3, 0, NOW())
		ON CONFLICT (experience_id, date) DO UPDATE
		SET status = EXCLUDED.status, updated_at = NOW()
		WHERE availability.status <> 'booked'
	`

	result, err := r.db.Exec(ctx, query, experienceID, date, status)
	if err != nil {
		r.log.Error("Failed to upsert availability",
			zap.Error(err),
			zap.String("experience_id", experienceID.String()),
			zap.String("date", date),
		)
		return false, fmt.Errorf("upsert availability %s on %s: %w", experienceID, date, err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *availabilityRepository) MarkBooked(ctx context.Context, experienceID uuid.UUID, date string, guests int) error {
	query := `
		INSERT INTO availability (experience_id, date, status, booked_guests, updated_at)
		VALUES ($1, $2, 'booked', $3, NOW())
		ON CONFLICT (experience_id, date) DO UPDATE
		SET status = 'booked',
			booked_guests = availability.booked_guests + EXCLUDED.booked_guests,
			updated_at = NOW()
	`

	if _, err := r.db.Exec(ctx, query, experienceID, date, guests); err != nil {
		r.log.Error("Failed to mark availability booked",
			zap.Error(err),
			zap.String("experience_id", experienceID.String()),
			zap.String("date", date),
			zap.Int("guests", guests),
		)
		return fmt.Errorf("mark %s booked on %s: %w", experienceID, date, err)
	}

	return nil
}
