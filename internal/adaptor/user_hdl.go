package adaptor

import (
	"net/http"

	"experience-market/internal/dto/request"
	"experience-market/internal/usecase"
	"experience-market/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log.With(zap.String("handler", "user")),
	}
}

// GetProfile handles GET /api/user/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetProfile(r.Context(), actorFromRequest(r))
	if err != nil {
		handleServiceError(w, h.log, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "Profile retrieved successfully", profile)
}

// ListUsers handles GET /api/admin/users?role=host&page=1&per_page=10
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	req := &request.UserListRequest{
		PaginatedRequest: parsePage(r),
		Role:             r.URL.Query().Get("role"),
	}

	users, err := h.service.ListUsers(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list users")
		return
	}

	utils.ResponseSuccess(w, "Users retrieved successfully", users)
}

// UpdateRole handles PUT /api/admin/users/{id}/role
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateUserRoleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.service.UpdateRole(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update user role")
		return
	}

	utils.ResponseSuccess(w, "Role updated, identity provider sync pending", user)
}
