package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"experience-market/internal/data/entity"
	"experience-market/internal/dto/request"
	"experience-market/internal/usecase"
	"experience-market/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	User            *UserHandler
	Experience      *ExperienceHandler
	Availability    *AvailabilityHandler
	Booking         *BookingHandler
	Cancellation    *CancellationHandler
	HostApplication *HostApplicationHandler
	Post            *PostHandler
	Notification    *NotificationHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		User:            NewUserHandler(service.User, log),
		Experience:      NewExperienceHandler(service.Experience, log),
		Availability:    NewAvailabilityHandler(service.Availability, log),
		Booking:         NewBookingHandler(service.Booking, log),
		Cancellation:    NewCancellationHandler(service.Cancellation, log),
		HostApplication: NewHostApplicationHandler(service.HostApplication, log),
		Post:            NewPostHandler(service.Post, log),
		Notification:    NewNotificationHandler(service.Notification, log),
	}
}

// actorFromRequest reads the caller placed in the context by the auth
// middleware. Anonymous requests yield a zero Actor.
func actorFromRequest(r *http.Request) usecase.Actor {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return usecase.Actor{}
	}
	role, _ := utils.GetRoleFromContext(r.Context())
	return usecase.Actor{UserID: userID, Role: entity.UserRole(role)}
}

// decodeAndValidate reads a JSON body into v and runs struct validation.
// It writes the 400 response itself and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}

	if validationErrors := utils.ValidateStruct(v); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return false
	}
	return true
}

func parsePage(r *http.Request) request.PaginatedRequest {
	query := r.URL.Query()
	page := request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
	if page.Page < 1 {
		page.Page = 1
	}
	if page.PerPage < 1 {
		page.PerPage = 10
	}
	if page.PerPage > 100 {
		page.PerPage = 100
	}
	return page
}

// handleServiceError maps usecase error categories to HTTP responses
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	errMsg := err.Error()

	switch {
	case errors.Is(err, usecase.ErrValidation):
		log.Warn(operation+" validation failed", zap.Error(err), zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case errors.Is(err, usecase.ErrSignature):
		log.Warn(operation+" failed - bad signature", zap.Error(err), zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	case errors.Is(err, usecase.ErrUnauthenticated):
		utils.ResponseUnauthorized(w, errMsg)

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err), zap.String("operation", operation))
		utils.ResponseForbidden(w, errMsg)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err), zap.String("operation", operation))
		utils.ResponseNotFound(w, errMsg)

	case errors.Is(err, usecase.ErrConflict):
		log.Warn(operation+" failed - conflict", zap.Error(err), zap.String("operation", operation))
		utils.ResponseConflict(w, errMsg)

	case errors.Is(err, usecase.ErrPayment):
		log.Error(operation+" failed - payment provider", zap.Error(err), zap.String("operation", operation))
		utils.ResponseBadGateway(w, errMsg)

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
