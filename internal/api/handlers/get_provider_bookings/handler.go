package get_provider_bookings

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/bikawo/bikawo-booking-service/internal/api/handlers"
	"github.com/bikawo/bikawo-booking-service/internal/api/middleware"
	"github.com/bikawo/bikawo-booking-service/internal/service/bookings"
)

const (
	msgInvalidProviderID = "invalid provider id"
	msgMissingUser       = "missing authenticated user"
	msgInvalidParams     = "invalid query parameters"
	msgForbidden         = "access denied"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/bookings
// Query params: startDate, endDate, status (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем providerId из URL
	providerID, err := uuid.Parse(mux.Vars(r)["providerId"])
	if err != nil {
		h.logger.Warn("GET /providers/{id}/bookings - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /providers/{id}/bookings - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(providerID, actor, query.Get("startDate"), query.Get("endDate"), query.Get("status"))
	if err != nil {
		h.logger.Warn("GET /providers/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	// Сервис сам проверит, что пользователь - этот исполнитель или администратор
	result, err := h.service.GetProviderBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /providers/{id}/bookings - Invalid filter: provider_id=%s, error=%v", providerID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /providers/{id}/bookings - Access denied: provider_id=%s, user_id=%s",
				providerID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /providers/{id}/bookings - Failed to get bookings: provider_id=%s, error=%v",
				providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /providers/{id}/bookings - Bookings retrieved successfully: provider_id=%s, count=%d",
		providerID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
