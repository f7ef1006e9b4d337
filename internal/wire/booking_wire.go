package wire

import (
	"experience-market/internal/adaptor"
	"experience-market/internal/data/entity"
	"experience-market/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	cancellationHandler *adaptor.CancellationHandler,
	auth authFunc,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Post("/api/bookings/checkout", bookingHandler.CreateCheckout)
		r.Get("/api/user/bookings", bookingHandler.GetMyBookings)
		r.Get("/api/bookings/{id}", bookingHandler.GetBookingByID)
		r.Post("/api/bookings/{id}/cancellation", cancellationHandler.CreateRequest)
	})

	// ==================== HOST ROUTES ====================
	r.Route("/api/host/bookings", func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.RequireRole(log, entity.RoleHost, entity.RoleAdmin))

		r.Get("/", bookingHandler.GetHostBookings)
		r.Post("/{id}/message", bookingHandler.MessageTraveler)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.Admin(log))

		r.Get("/", bookingHandler.GetAllBookings)
		r.Get("/{id}", bookingHandler.GetBookingByID)
	})

	r.Route("/api/admin/cancellations", func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.Admin(log))

		r.Get("/", cancellationHandler.ListRequests)
		r.Put("/{id}/processed", cancellationHandler.MarkProcessed)
	})
}

// wirePaymentWebhook mounts the Stripe callback. It is authenticated by the
// Stripe-Signature header, not a session.
func wirePaymentWebhook(r chi.Router, bookingHandler *adaptor.BookingHandler) {
	r.Post("/api/webhooks/stripe", bookingHandler.StripeWebhook)
}
