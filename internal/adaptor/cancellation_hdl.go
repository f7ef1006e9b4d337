package adaptor

import (
	"net/http"
	"strconv"

	"experience-market/internal/dto/request"
	"experience-market/internal/usecase"
	"experience-market/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CancellationHandler struct {
	service usecase.CancellationService
	log     *zap.Logger
}

func NewCancellationHandler(service usecase.CancellationService, log *zap.Logger) *CancellationHandler {
	return &CancellationHandler{
		service: service,
		log:     log.With(zap.String("handler", "cancellation")),
	}
}

// CreateRequest handles POST /api/bookings/{id}/cancellation. The body is
// optional.
func (h *CancellationHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req request.CreateCancellationRequest
	if r.ContentLength != 0 && !decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.service.CreateRequest(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create cancellation request")
		return
	}

	utils.ResponseCreated(w, "Cancellation request submitted", created)
}

// ListRequests handles GET /api/admin/cancellations?processed=false
func (h *CancellationHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	req := &request.CancellationListRequest{PaginatedRequest: parsePage(r)}

	if raw := r.URL.Query().Get("processed"); raw != "" {
		processed, err := strconv.ParseBool(raw)
		if err != nil {
			utils.ResponseBadRequest(w, "processed must be true or false", nil)
			return
		}
		req.Processed = &processed
	}

	requests, err := h.service.ListRequests(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list cancellation requests")
		return
	}

	utils.ResponseSuccess(w, "success", requests)
}

// MarkProcessed handles PUT /api/admin/cancellations/{id}/processed
func (h *CancellationHandler) MarkProcessed(w http.ResponseWriter, r *http.Request) {
	processed, err := h.service.MarkProcessed(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "mark cancellation processed")
		return
	}

	utils.ResponseSuccess(w, "Cancellation request marked processed", processed)
}
