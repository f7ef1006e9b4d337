package wire

import (
	"net/http"

	"experience-market/internal/adaptor"
	"experience-market/internal/data/repository"
	"experience-market/internal/usecase"
	"experience-market/pkg/identity"
	"experience-market/pkg/middleware"
	"experience-market/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the wired router and the services behind it
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes. rdb may be nil, which
// disables rate limiting.
func Wiring(repo *repository.Repository, ext usecase.Externals, rdb *redis.Client, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, ext, logger)
	handler := adaptor.NewHandler(service, logger)

	verifier := identity.NewVerifier(config.Identity)
	auth := middleware.Authenticate(verifier, service.User, logger.With(zap.String("middleware", "auth")))

	router := setupRouter(handler, auth, rdb, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

// authFunc is the authentication middleware shared by protected routes
type authFunc = func(http.Handler) http.Handler

func setupRouter(
	handler *adaptor.Handler,
	auth authFunc,
	rdb *redis.Client,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Server-to-server callbacks stay outside the client rate limit
	wirePaymentWebhook(r, handler.Booking)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(config.RateLimit, rdb, logger.With(zap.String("middleware", "ratelimit"))))

		// Apply routes
		wireUser(r, handler.User, handler.Notification, auth, logger)
		wireExperience(r, handler.Experience, handler.Availability, auth, logger)
		wireBooking(r, handler.Booking, handler.Cancellation, auth, logger)
		wireHostApplication(r, handler.HostApplication, auth, logger)
		wirePost(r, handler.Post, auth, logger)

		// Health check endpoint
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
	})

	return r
}
