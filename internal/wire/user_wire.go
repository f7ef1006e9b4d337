package wire

import (
	"experience-market/internal/adaptor"
	"experience-market/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	notificationHandler *adaptor.NotificationHandler,
	auth authFunc,
	log *zap.Logger,
) {
	// ==================== PROTECTED USER ROUTES ====================
	r.With(auth).Get("/api/user/profile", userHandler.GetProfile)

	// ==================== ADMIN ROUTES ====================
	r.With(auth, middleware.Admin(log)).Route("/api/admin/users", func(r chi.Router) {
		r.Get("/", userHandler.ListUsers)           // GET /api/admin/users?role=host&page=1
		r.Put("/{id}/role", userHandler.UpdateRole) // PUT /api/admin/users/{id}/role
	})

	r.With(auth, middleware.Admin(log)).Post("/api/admin/emails/test", notificationHandler.SendTestEmail)
}
