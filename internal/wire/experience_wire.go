package wire

import (
	"experience-market/internal/adaptor"
	"experience-market/internal/data/entity"
	"experience-market/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireExperience(
	r chi.Router,
	experienceHandler *adaptor.ExperienceHandler,
	availabilityHandler *adaptor.AvailabilityHandler,
	auth authFunc,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/experiences", experienceHandler.ListExperiences)
	r.Get("/api/experiences/{id}", experienceHandler.GetExperience)

	// GET /api/experiences/{id}/availability?month=2025-06
	r.Get("/api/experiences/{id}/availability", availabilityHandler.GetMonth)

	// ==================== HOST ROUTES ====================
	// Hosts manage their own experiences, admins manage all of them
	r.Route("/api/host/experiences", func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.RequireRole(log, entity.RoleHost, entity.RoleAdmin))

		r.Get("/", experienceHandler.ListManaged)
		r.Post("/", experienceHandler.CreateExperience)
		r.Get("/{id}", experienceHandler.GetManaged)
		r.Put("/{id}", experienceHandler.UpdateExperience)
		r.Delete("/{id}", experienceHandler.DeleteExperience)
		r.Put("/{id}/status", experienceHandler.UpdateStatus)

		r.Put("/{id}/availability", availabilityHandler.BulkUpdate)
		r.Put("/{id}/availability/day", availabilityHandler.UpdateDate)
	})
}
