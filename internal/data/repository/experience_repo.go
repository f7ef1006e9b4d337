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

// ExperienceFilter narrows experience listings. Zero values match everything.
type ExperienceFilter struct {
	HostID   uuid.UUID
	Status   entity.ExperienceStatus
	Location string
}

type ExperienceRepository interface {
	Create(ctx context.Context, experience *entity.Experience) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Experience, error)
	FindAll(ctx context.Context, filter ExperienceFilter, limit, offset int) ([]*entity.Experience, error)
	Count(ctx context.Context, filter ExperienceFilter) (int64, error)
	Update(ctx context.Context, experience *entity.Experience) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ExperienceStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type experienceRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewExperienceRepository(db database.DBTX, log *zap.Logger) ExperienceRepository {
	return &experienceRepository{
		db:  db,
		log: log.With(zap.String("repository", "experience")),
	}
}

const experienceColumns = `id, host_id, title_en, title_es, description_en, description_es,
	location, max_guests, price_usd, image_url, status, created_at, updated_at`

func scanExperience(row pgx.Row) (*entity.Experience, error) {
	var exp entity.Experience
	err := row.Scan(
		&exp.ID,
		&exp.HostID,
		&exp.TitleEN,
		&exp.TitleES,
		&exp.DescriptionEN,
		&exp.DescriptionES,
		&exp.Location,
		&exp.MaxGuests,
		&exp.PriceUSD,
		&exp.ImageURL,
		&exp.Status,
		&exp.CreatedAt,
		&exp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &exp, nil
}

func (r *experienceRepository) Create(ctx context.Context, exp *entity.Experience) error {
	query := `
		INSERT INTO experiences (id, host_id, title_en, title_es, description_en, description_es,
			location, max_guests, price_usd, image_url, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		exp.ID,
		exp.HostID,
		exp.TitleEN,
		exp.TitleES,
		exp.DescriptionEN,
		exp.DescriptionES,
		exp.Location,
		exp.MaxGuests,
		exp.PriceUSD,
		exp.ImageURL,
		exp.Status,
		exp.CreatedAt,
		exp.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create experience",
			zap.Error(err),
			zap.String("host_id", exp.HostID.String()),
		)
		return fmt.Errorf("create experience: %w", err)
	}

	return nil
}

func (r *experienceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Experience, error) {
	query := `SELECT ` + experienceColumns + ` FROM experiences WHERE id = $1`

	exp, err := scanExperience(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find experience by ID", zap.Error(err), zap.String("experience_id", id.String()))
		return nil, fmt.Errorf("find experience by ID %s: %w", id, err)
	}

	return exp, nil
}

// filterArgs keeps the placeholder order shared by FindAll and Count
func (f ExperienceFilter) args() []any {
	var hostID any
	if f.HostID != uuid.Nil {
		hostID = f.HostID
	}
	return []any{hostID, string(f.Status), f.Location}
}

const experienceWhere = `
	WHERE ($1::uuid IS NULL OR host_id = $1)
	  AND ($2 = '' OR status = $2)
	  AND ($3 = '' OR location ILIKE '%' || $3 || '%')
`

func (r *experienceRepository) FindAll(ctx context.Context, filter ExperienceFilter, limit, offset int) ([]*entity.Experience, error) {
	query := `SELECT ` + experienceColumns + ` FROM experiences` + experienceWhere + `
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`

	args := append(filter.args(), limit, offset)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find experiences", zap.Error(err))
		return nil, fmt.Errorf("find experiences: %w", err)
	}
	defer rows.Close()

	var experiences []*entity.Experience
	for rows.Next() {
		exp, err := scanExperience(rows)
		if err != nil {
			r.log.Error("Failed to scan experience row", zap.Error(err))
			return nil, fmt.Errorf("scan experience row: %w", err)
		}
		experiences = append(experiences, exp)
	}

	return experiences, rows.Err()
}

func (r *experienceRepository) Count(ctx context.Context, filter ExperienceFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM experiences` + experienceWhere

	var count int64
	if err := r.db.QueryRow(ctx, query, filter.args()...).Scan(&count); err != nil {
		r.log.Error("Failed to count experiences", zap.Error(err))
		return 0, fmt.Errorf("count experiences: %w", err)
	}

	return count, nil
}

func (r *experienceRepository) Update(ctx context.Context, exp *entity.Experience) error {
	query := `
		UPDATE experiences
		SET title_en = $2, title_es = $3, description_en = $4, description_es = $5,
			location = $6, max_guests = $7, price_usd = $8, image_url = $9, status = $10,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		exp.ID,
		exp.TitleEN,
		exp.TitleES,
		exp.DescriptionEN,
		exp.DescriptionES,
		exp.Location,
		exp.MaxGuests,
		exp.PriceUSD,
		exp.ImageURL,
		exp.Status,
	)
	if err != nil {
		r.log.Error("Failed to update experience", zap.Error(err), zap.String("experience_id", exp.ID.String()))
		return fmt.Errorf("update experience %s: %w", exp.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("experience %s not found", exp.ID)
	}

	return nil
}

func (r *experienceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ExperienceStatus) error {
	query := `UPDATE experiences SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update experience status",
			zap.Error(err),
			zap.String("experience_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update experience %s status: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("experience %s not found", id)
	}

	return nil
}

func (r *experienceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM experiences WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete experience", zap.Error(err), zap.String("experience_id", id.String()))
		return fmt.Errorf("delete experience %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("experience %s not found", id)
	}

	return nil
}
