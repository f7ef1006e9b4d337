package adaptor

import (
	"net/http"

	"experience-market/internal/dto/request"
	"experience-market/internal/usecase"
	"experience-market/pkg/utils"

	"go.uber.org/zap"
)

type NotificationHandler struct {
	service usecase.NotificationService
	log     *zap.Logger
}

func NewNotificationHandler(service usecase.NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		log:     log.With(zap.String("handler", "notification")),
	}
}

// SendTestEmail handles POST /api/admin/emails/test. Delivery is
// best-effort, so the response only confirms the message was queued.
func (h *NotificationHandler) SendTestEmail(w http.ResponseWriter, r *http.Request) {
	var req request.TestEmailRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	h.service.SendTestEmail(r.Context(), &req)

	h.log.Info("Test email requested", zap.String("to", req.To))
	utils.ResponseSuccess(w, "Test email dispatched", nil)
}
