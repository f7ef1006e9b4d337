package repository

import (
	"context"

	"experience-market/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User            UserRepository
	Experience      ExperienceRepository
	Availability    AvailabilityRepository
	Booking         BookingRepository
	Cancellation    CancellationRepository
	HostApplication HostApplicationRepository
	Post            PostRepository

	Tx Transactor
}

// Transactor runs fn against a Repository bound to a single transaction
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repo *Repository) error) error
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newRepository(db, log)
	repo.Tx = &pgTransactor{db: db, log: log}
	return repo
}

func newRepository(db database.DBTX, log *zap.Logger) *Repository {
	return &Repository{
		User:            NewUserRepository(db, log),
		Experience:      NewExperienceRepository(db, log),
		Availability:    NewAvailabilityRepository(db, log),
		Booking:         NewBookingRepository(db, log),
		Cancellation:    NewCancellationRepository(db, log),
		HostApplication: NewHostApplicationRepository(db, log),
		Post:            NewPostRepository(db, log),
	}
}

type pgTransactor struct {
	db  database.PgxIface
	log *zap.Logger
}

func (t *pgTransactor) WithinTx(ctx context.Context, fn func(repo *Repository) error) error {
	return database.WithinTx(ctx, t.db, func(tx database.DBTX) error {
		txRepo := newRepository(tx, t.log)
		txRepo.Tx = joinedTx{repo: txRepo}
		return fn(txRepo)
	})
}

// joinedTx reuses the surrounding transaction for nested calls
type joinedTx struct {
	repo *Repository
}

func (j joinedTx) WithinTx(ctx context.Context, fn func(repo *Repository) error) error {
	return fn(j.repo)
}
