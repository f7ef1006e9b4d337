package adaptor

import (
	"net/http"

	"experience-market/internal/dto/request"
	"experience-market/internal/dto/response"
	"experience-market/internal/usecase"
	"experience-market/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type HostApplicationHandler struct {
	service usecase.HostApplicationService
	log     *zap.Logger
}

func NewHostApplicationHandler(service usecase.HostApplicationService, log *zap.Logger) *HostApplicationHandler {
	return &HostApplicationHandler{
		service: service,
		log:     log.With(zap.String("handler", "host_application")),
	}
}

// Apply handles POST /api/host-applications
func (h *HostApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req request.CreateHostApplicationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	app, err := h.service.Apply(r.Context(), actorFromRequest(r), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "submit host application")
		return
	}

	utils.ResponseCreated(w, "Application submitted", app)
}

// GetMine handles GET /api/user/host-application
func (h *HostApplicationHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	app, err := h.service.GetMyApplication(r.Context(), actorFromRequest(r))
	if err != nil {
		handleServiceError(w, h.log, err, "get host application")
		return
	}

	utils.ResponseSuccess(w, "success", app)
}

// List handles GET /api/admin/host-applications?status=pending
func (h *HostApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	req := &request.HostApplicationListRequest{
		PaginatedRequest: parsePage(r),
		Status:           r.URL.Query().Get("status"),
	}

	apps, err := h.service.ListApplications(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list host applications")
		return
	}

	utils.ResponseSuccess(w, "success", apps)
}

// Approve handles PUT /api/admin/host-applications/{id}/approve
func (h *HostApplicationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, true)
}

// Reject handles PUT /api/admin/host-applications/{id}/reject
func (h *HostApplicationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, false)
}

func (h *HostApplicationHandler) review(w http.ResponseWriter, r *http.Request, approve bool) {
	var req request.ReviewHostApplicationRequest
	if r.ContentLength != 0 && !decodeAndValidate(w, r, &req) {
		return
	}

	actor := actorFromRequest(r)
	id := chi.URLParam(r, "id")

	var (
		app *response.HostApplicationResponse
		err error
	)
	if approve {
		app, err = h.service.Approve(r.Context(), actor, id, &req)
	} else {
		app, err = h.service.Reject(r.Context(), actor, id, &req)
	}
	if err != nil {
		handleServiceError(w, h.log, err, "review host application")
		return
	}

	utils.ResponseSuccess(w, "Application reviewed", app)
}
