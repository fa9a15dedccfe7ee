package update_refund_policy

import (
	"errors"
	"net/http"

	"github.com/bikawo/bikawo-booking-service/internal/api/handlers"
	"github.com/bikawo/bikawo-booking-service/internal/api/middleware"
	"github.com/bikawo/bikawo-booking-service/internal/service/policies"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgValidationFailed   = "validation failed"
	msgMissingUser        = "missing authenticated user"
	msgForbidden          = "access denied"
	msgInvalidData        = "invalid refund policy"
	msgConflict           = "refund policy was modified concurrently, retry the request"
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

// Handle PUT /api/v1/refund-policies
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PUT /refund-policies - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	// Декодируем body
	var req UpdateRefundPolicyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /refund-policies - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if details := handlers.Validate(&req); details != nil {
		h.logger.Warn("PUT /refund-policies - Validation failed: %v", details)
		handlers.RespondValidationError(w, msgValidationFailed, details)
		return
	}

	// Сервис сам проверит права администратора
	result, err := h.service.Update(r.Context(), req.ToServiceRequest(actor))
	if err != nil {
		switch {
		case errors.Is(err, policies.ErrAccessDenied):
			h.logger.Warn("PUT /refund-policies - Access denied: user_id=%s", actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, policies.ErrInvalidInput):
			h.logger.Warn("PUT /refund-policies - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, policies.ErrConflict):
			h.logger.Warn("PUT /refund-policies - Conflict: service_type=%v, error=%v", req.ServiceType, err)
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("PUT /refund-policies - Failed to update policy: service_type=%v, error=%v", req.ServiceType, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /refund-policies - Policy updated: id=%v, source=%s, user_id=%s", result.ID, result.Source, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
