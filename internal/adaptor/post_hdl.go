package adaptor

import (
	"net/http"

	"experience-market/internal/dto/request"
	"experience-market/internal/usecase"
	"experience-market/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PostHandler struct {
	service usecase.PostService
	log     *zap.Logger
}

func NewPostHandler(service usecase.PostService, log *zap.Logger) *PostHandler {
	return &PostHandler{
		service: service,
		log:     log.With(zap.String("handler", "post")),
	}
}

// ListPublished handles GET /api/posts (public)
func (h *PostHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)

	posts, err := h.service.ListPublished(r.Context(), &page)
	if err != nil {
		handleServiceError(w, h.log, err, "list posts")
		return
	}

	utils.ResponseSuccess(w, "success", posts)
}

// GetBySlug handles GET /api/posts/{slug} (public)
func (h *PostHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleServiceError(w, h.log, err, "get post")
		return
	}

	utils.ResponseSuccess(w, "success", post)
}

// ==================== ADMIN METHODS ====================

// ListAll handles GET /api/admin/posts, drafts included
func (h *PostHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)

	posts, err := h.service.ListAll(r.Context(), &page)
	if err != nil {
		handleServiceError(w, h.log, err, "list all posts")
		return
	}

	utils.ResponseSuccess(w, "success", posts)
}

// CreatePost handles POST /api/admin/posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePostRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	post, err := h.service.CreatePost(r.Context(), actorFromRequest(r), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create post")
		return
	}

	utils.ResponseCreated(w, "Post created successfully", post)
}

// UpdatePost handles PUT /api/admin/posts/{id}
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var req request.UpdatePostRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	post, err := h.service.UpdatePost(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update post")
		return
	}

	utils.ResponseSuccess(w, "Post updated successfully", post)
}

// DeletePost handles DELETE /api/admin/posts/{id}
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePost(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete post")
		return
	}

	utils.ResponseSuccess(w, "Post deleted successfully", nil)
}
