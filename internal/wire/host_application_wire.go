package wire

import (
	"experience-market/internal/adaptor"
	"experience-market/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireHostApplication(
	r chi.Router,
	hostApplicationHandler *adaptor.HostApplicationHandler,
	auth authFunc,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.With(auth).Post("/api/host-applications", hostApplicationHandler.Apply)
	r.With(auth).Get("/api/user/host-application", hostApplicationHandler.GetMine)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/host-applications", func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.Admin(log))

		r.Get("/", hostApplicationHandler.List)
		r.Put("/{id}/approve", hostApplicationHandler.Approve) // approve + promote to host
		r.Put("/{id}/reject", hostApplicationHandler.Reject)
	})
}
