package adaptor

import (
	"net/http"
	"time"

	"experience-market/internal/dto/request"
	"experience-market/internal/usecase"
	"experience-market/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AvailabilityHandler struct {
	service usecase.AvailabilityService
	log     *zap.Logger
}

func NewAvailabilityHandler(service usecase.AvailabilityService, log *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log.With(zap.String("handler", "availability")),
	}
}

// GetMonth handles GET /api/experiences/{id}/availability?month=2025-06 (public).
// The current month is used when month is omitted.
func (h *AvailabilityHandler) GetMonth(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		month = time.Now().UTC().Format("2006-01")
	}

	calendar, err := h.service.GetMonth(r.Context(), chi.URLParam(r, "id"), &request.MonthAvailabilityRequest{Month: month})
	if err != nil {
		handleServiceError(w, h.log, err, "get month availability")
		return
	}

	utils.ResponseSuccess(w, "success", calendar)
}

// BulkUpdate handles PUT /api/host/experiences/{id}/availability
func (h *AvailabilityHandler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	var req request.BulkAvailabilityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.service.BulkUpdate(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "bulk update availability")
		return
	}

	utils.ResponseSuccess(w, "Availability updated", result)
}

// UpdateDate handles PUT /api/host/experiences/{id}/availability/day
func (h *AvailabilityHandler) UpdateDate(w http.ResponseWriter, r *http.Request) {
	var req request.DateAvailabilityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	day, err := h.service.UpdateDate(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update date availability")
		return
	}

	utils.ResponseSuccess(w, "Availability updated", day)
}
