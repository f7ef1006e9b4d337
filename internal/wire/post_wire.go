package wire

import (
	"experience-market/internal/adaptor"
	"experience-market/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePost(
	r chi.Router,
	postHandler *adaptor.PostHandler,
	auth authFunc,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/posts", postHandler.ListPublished)
	r.Get("/api/posts/{slug}", postHandler.GetBySlug)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/posts", func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.Admin(log))

		r.Get("/", postHandler.ListAll)
		r.Post("/", postHandler.CreatePost)
		r.Put("/{id}", postHandler.UpdatePost)
		r.Delete("/{id}", postHandler.DeletePost)
	})
}
