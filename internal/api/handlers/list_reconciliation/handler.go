package list_reconciliation

import (
	"errors"
	"net/http"

	"github.com/bikawo/bikawo-booking-service/internal/api/handlers"
	"github.com/bikawo/bikawo-booking-service/internal/api/middleware"
	"github.com/bikawo/bikawo-booking-service/internal/service/refunds"
)

const (
	msgMissingUser = "missing authenticated user"
	msgForbidden   = "access denied"
)

type Handler struct {
	service RefundService
	logger  Logger
}

func NewHandler(service RefundService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/refunds/reconciliation
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /admin/refunds/reconciliation - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	result, err := h.service.ListForReconciliation(r.Context(), actor)
	if err != nil {
		switch {
		case errors.Is(err, refunds.ErrAccessDenied):
			h.logger.Warn("GET /admin/refunds/reconciliation - Access denied: user_id=%s", actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /admin/refunds/reconciliation - Failed to list refunds: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/refunds/reconciliation - Refunds retrieved: count=%d", len(result.Refunds))
	handlers.RespondJSON(w, http.StatusOK, result)
}
