package usecase

import (
	"experience-market/internal/data/repository"
	"experience-market/pkg/identity"
	"experience-market/pkg/mailer"
	"experience-market/pkg/payment"

	"go.uber.org/zap"
)

// Externals are the third-party systems the services talk to. Publisher
// may be nil, in which case notifications go straight to Mailer.
type Externals struct {
	Payments  payment.Gateway
	Roles     identity.RoleWriter
	Publisher Publisher
	Mailer    mailer.Mailer
}

type Service struct {
	User            UserService
	Experience      ExperienceService
	Availability    AvailabilityService
	Booking         BookingService
	Cancellation    CancellationService
	HostApplication HostApplicationService
	Post            PostService
	Notification    NotificationService
}

func NewService(repo *repository.Repository, ext Externals, log *zap.Logger) *Service {
	notifier := NewNotificationService(ext.Publisher, ext.Mailer, log)

	return &Service{
		User:            NewUserService(repo, ext.Roles, log),
		Experience:      NewExperienceService(repo, log),
		Availability:    NewAvailabilityService(repo, log),
		Booking:         NewBookingService(repo, ext.Payments, notifier, log),
		Cancellation:    NewCancellationService(repo, log),
		HostApplication: NewHostApplicationService(repo, notifier, log),
		Post:            NewPostService(repo, log),
		Notification:    notifier,
	}
}
