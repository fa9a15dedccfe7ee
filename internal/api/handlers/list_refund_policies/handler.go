package list_refund_policies

import (
	"errors"
	"net/http"

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

// Handle GET /api/v1/refund-policies/all
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /refund-policies/all - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	result, err := h.service.List(r.Context(), actor)
	if err != nil {
		switch {
		case errors.Is(err, policies.ErrAccessDenied):
			h.logger.Warn("GET /refund-policies/all - Access denied: user_id=%s", actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /refund-policies/all - Failed to list policies: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /refund-policies/all - Policies retrieved: count=%d", len(result.Policies))
	handlers.RespondJSON(w, http.StatusOK, result)
}
