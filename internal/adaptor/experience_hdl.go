package adaptor

import (
	"net/http"

	"experience-market/internal/dto/request"
	"experience-market/internal/usecase"
	"experience-market/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ExperienceHandler struct {
	service usecase.ExperienceService
	log     *zap.Logger
}

func NewExperienceHandler(service usecase.ExperienceService, log *zap.Logger) *ExperienceHandler {
	return &ExperienceHandler{
		service: service,
		log:     log.With(zap.String("handler", "experience")),
	}
}

// ListExperiences handles GET /api/experiences?location=oaxaca (public)
func (h *ExperienceHandler) ListExperiences(w http.ResponseWriter, r *http.Request) {
	req := &request.ExperienceListRequest{
		PaginatedRequest: parsePage(r),
		Location:         r.URL.Query().Get("location"),
	}

	experiences, err := h.service.ListExperiences(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list experiences")
		return
	}

	utils.ResponseSuccess(w, "success", experiences)
}

// GetExperience handles GET /api/experiences/{id} (public)
func (h *ExperienceHandler) GetExperience(w http.ResponseWriter, r *http.Request) {
	experience, err := h.service.GetExperience(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get experience")
		return
	}

	utils.ResponseSuccess(w, "success", experience)
}

// ==================== HOST METHODS ====================

// ListManaged handles GET /api/host/experiences
func (h *ExperienceHandler) ListManaged(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)

	experiences, err := h.service.ListManagedExperiences(r.Context(), actorFromRequest(r), &page)
	if err != nil {
		handleServiceError(w, h.log, err, "list managed experiences")
		return
	}

	utils.ResponseSuccess(w, "success", experiences)
}

// GetManaged handles GET /api/host/experiences/{id}, drafts included
func (h *ExperienceHandler) GetManaged(w http.ResponseWriter, r *http.Request) {
	experience, err := h.service.GetManagedExperience(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get managed experience")
		return
	}

	utils.ResponseSuccess(w, "success", experience)
}

// CreateExperience handles POST /api/host/experiences
func (h *ExperienceHandler) CreateExperience(w http.ResponseWriter, r *http.Request) {
	var req request.CreateExperienceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	experience, err := h.service.CreateExperience(r.Context(), actorFromRequest(r), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create experience")
		return
	}

	utils.ResponseCreated(w, "Experience created successfully", experience)
}

// UpdateExperience handles PUT /api/host/experiences/{id}
func (h *ExperienceHandler) UpdateExperience(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateExperienceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	experience, err := h.service.UpdateExperience(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update experience")
		return
	}

	utils.ResponseSuccess(w, "Experience updated successfully", experience)
}

// UpdateStatus handles PUT /api/host/experiences/{id}/status
func (h *ExperienceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateExperienceStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	experience, err := h.service.UpdateStatus(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update experience status")
		return
	}

	utils.ResponseSuccess(w, "Experience status updated", experience)
}

// DeleteExperience handles DELETE /api/host/experiences/{id}
func (h *ExperienceHandler) DeleteExperience(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteExperience(r.Context(), actorFromRequest(r), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete experience")
		return
	}

	utils.ResponseSuccess(w, "Experience deleted successfully", nil)
}
