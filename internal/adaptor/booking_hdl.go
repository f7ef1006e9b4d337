package adaptor

import (
	"io"
	"net/http"

	"experience-market/internal/dto/request"
	"experience-market/internal/usecase"
	"experience-market/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxWebhookBytes caps the payment webhook body
const maxWebhookBytes = 64 << 10

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateCheckout handles POST /api/bookings/checkout (protected)
func (h *BookingHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req request.CheckoutRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	checkout, err := h.service.CreateCheckout(r.Context(), actorFromRequest(r), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create checkout")
		return
	}

	utils.ResponseCreated(w, "Checkout session created", checkout)
}

// GetMyBookings handles GET /api/user/bookings (protected)
func (h *BookingHandler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)

	bookings, err := h.service.GetMyBookings(r.Context(), actorFromRequest(r), &page)
	if err != nil {
		handleServiceError(w, h.log, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBookingByID handles GET /api/bookings/{id} for the traveler, the
// owning host and admins
func (h *BookingHandler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	booking, err := h.service.GetBookingByID(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get booking by ID")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// StripeWebhook handles POST /api/webhooks/stripe. The raw body is needed
// for signature verification, so it is read as bytes rather than decoded.
func (h *BookingHandler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		h.log.Warn("Webhook body rejected", zap.Error(err))
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		handleServiceError(w, h.log, err, "handle payment webhook")
		return
	}

	utils.ResponseSuccess(w, "received", nil)
}

// ==================== HOST METHODS ====================

// GetHostBookings handles GET /api/host/bookings?experience_id=&paid_only=true
func (h *BookingHandler) GetHostBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.GetHostBookings(r.Context(), actorFromRequest(r), bookingListRequest(r))
	if err != nil {
		handleServiceError(w, h.log, err, "get host bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// MessageTraveler handles POST /api/host/bookings/{id}/message
func (h *BookingHandler) MessageTraveler(w http.ResponseWriter, r *http.Request) {
	var req request.HostMessageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.service.MessageTraveler(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), &req); err != nil {
		handleServiceError(w, h.log, err, "message traveler")
		return
	}

	utils.ResponseSuccess(w, "Message sent", nil)
}

// ==================== ADMIN METHODS ====================

// GetAllBookings handles GET /api/admin/bookings (admin only)
func (h *BookingHandler) GetAllBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.GetAllBookings(r.Context(), bookingListRequest(r))
	if err != nil {
		handleServiceError(w, h.log, err, "get all bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

func bookingListRequest(r *http.Request) *request.BookingListRequest {
	query := r.URL.Query()
	return &request.BookingListRequest{
		PaginatedRequest: parsePage(r),
		ExperienceID:     query.Get("experience_id"),
		PaidOnly:         query.Get("paid_only") == "true",
	}
}
