package get_refund_policy

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bikawo/bikawo-booking-service/internal/api/handlers"
	"github.com/bikawo/bikawo-booking-service/internal/api/middleware"
	"github.com/bikawo/bikawo-booking-service/internal/service/policies"
)

const (
	msgMissingUser = "missing authenticated user"
	msgForbidden   = "access denied"
)

type Handler struct {
	service PolicyService
	logger  Logger
}

func NewHandler(service PolicyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/refund-policies
// Query params: serviceType (опционально, без него - глобальная политика)
// Если в БД ничего нет, возвращается политика из конфигурации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /refund-policies - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	var serviceType *string
	if st := strings.TrimSpace(r.URL.Query().Get("serviceType")); st != "" {
		serviceType = &st
	}

	result, err := h.service.Get(r.Context(), actor, serviceType)
	if err != nil {
		if errors.Is(err, policies.ErrAccessDenied) {
			h.logger.Warn("GET /refund-policies - Access denied: user_id=%s", actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)
			return
		}

		h.logger.Error("GET /refund-policies - Failed to get policy: service_type=%v, error=%v", serviceType, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /refund-policies - Policy retrieved: source=%s", result.Source)
	handlers.RespondJSON(w, http.StatusOK, result)
}
