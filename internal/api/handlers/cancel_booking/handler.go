package cancel_booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/bikawo/bikawo-booking-service/internal/api/handlers"
	"github.com/bikawo/bikawo-booking-service/internal/api/middleware"
	cancelUseCase "github.com/bikawo/bikawo-booking-service/internal/usecase/cancel_booking"
)

const (
	msgInvalidBookingID   = "invalid booking id"
	msgInvalidRequestBody = "invalid request body"
	msgValidationFailed   = "reason is required (max 500 characters) and cancelledBy must be client or provider"
	msgMissingUser        = "missing authenticated user"
	msgNotFound           = "booking not found"
	msgForbidden          = "you are not allowed to cancel this booking"
	msgAlreadyCancelled   = "booking is already cancelled"
	msgCannotCancel       = "booking can no longer be cancelled"
	msgInternalError      = "internal server error"
)

type Handler struct {
	useCase CancelUseCase
	logger  Logger
}

func NewHandler(useCase CancelUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем bookingId из URL
	bookingID, err := uuid.Parse(mux.Vars(r)["bookingId"])
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondJSON(w, http.StatusBadRequest, failure(msgInvalidBookingID))
		return
	}

	// Получаем пользователя из контекста (через middleware Auth)
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Missing actor")
		handlers.RespondJSON(w, http.StatusUnauthorized, failure(msgMissingUser))
		return
	}

	// Декодируем и валидируем body
	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondJSON(w, http.StatusBadRequest, failure(msgInvalidRequestBody))
		return
	}
	if details := handlers.Validate(&req); details != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Validation failed: booking_id=%s, details=%v", bookingID, details)
		handlers.RespondJSON(w, http.StatusBadRequest, failure(msgValidationFailed))
		return
	}

	resp, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(bookingID, actor))
	if err != nil {
		switch {
		case errors.Is(err, cancelUseCase.ErrInvalidArgument):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid argument: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondJSON(w, http.StatusBadRequest, failure(msgValidationFailed))

		case errors.Is(err, cancelUseCase.ErrNotFound):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Booking not found: booking_id=%s", bookingID)
			handlers.RespondJSON(w, http.StatusNotFound, failure(msgNotFound))

		case errors.Is(err, cancelUseCase.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Access denied: booking_id=%s, user_id=%s, as=%s",
				bookingID, actor.UserID, req.CancelledBy)
			handlers.RespondJSON(w, http.StatusForbidden, failure(msgForbidden))

		case errors.Is(err, cancelUseCase.ErrAlreadyCancelled):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Already cancelled: booking_id=%s", bookingID)
			handlers.RespondJSON(w, http.StatusConflict, failure(msgAlreadyCancelled))

		case errors.Is(err, cancelUseCase.ErrCannotCancel):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Cannot cancel: booking_id=%s", bookingID)
			handlers.RespondJSON(w, http.StatusConflict, failure(msgCannotCancel))

		default:
			h.logger.Error("PATCH /bookings/{id}/cancel - Failed to cancel booking: booking_id=%s, error=%v",
				bookingID, err)
			handlers.RespondJSON(w, http.StatusInternalServerError, failure(msgInternalError))
		}
		return
	}

	if resp.HasWarning() {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Booking cancelled with refund warning: booking_id=%s, refund_status=%s, error=%v",
			bookingID, resp.RefundStatus, resp.GatewayErr)
	} else {
		h.logger.Info("PATCH /bookings/{id}/cancel - Booking cancelled successfully: booking_id=%s, user_id=%s, refund=%.2f",
			bookingID, actor.UserID, resp.RefundAmount)
	}
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
