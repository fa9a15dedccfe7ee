package quote_refund

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/bikawo/bikawo-booking-service/internal/api/handlers"
	"github.com/bikawo/bikawo-booking-service/internal/api/middleware"
	quoteUseCase "github.com/bikawo/bikawo-booking-service/internal/usecase/quote_refund"
)

const (
	msgInvalidBookingID = "invalid booking id"
	msgMissingUser      = "missing authenticated user"
	msgNotFound         = "booking not found"
	msgForbidden        = "access denied"
	msgNotCancellable   = "booking can no longer be cancelled"
)

type Handler struct {
	useCase QuoteUseCase
	logger  Logger
}

func NewHandler(useCase QuoteUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/{bookingId}/refund-quote
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := uuid.Parse(mux.Vars(r)["bookingId"])
	if err != nil {
		h.logger.Warn("GET /bookings/{id}/refund-quote - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/{id}/refund-quote - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), &quoteUseCase.Request{BookingID: bookingID, Actor: actor})
	if err != nil {
		switch {
		case errors.Is(err, quoteUseCase.ErrNotFound):
			h.logger.Warn("GET /bookings/{id}/refund-quote - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, quoteUseCase.ErrAccessDenied):
			h.logger.Warn("GET /bookings/{id}/refund-quote - Access denied: booking_id=%s, user_id=%s", bookingID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, quoteUseCase.ErrNotCancellable):
			h.logger.Warn("GET /bookings/{id}/refund-quote - Not cancellable: booking_id=%s", bookingID)
			handlers.RespondConflict(w, msgNotCancellable)

		default:
			// ErrInvalidArgument здесь означает битые данные бронирования в БД
			h.logger.Error("GET /bookings/{id}/refund-quote - Failed to quote refund: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/{id}/refund-quote - Refund quoted: booking_id=%s, tier=%s, amount=%.2f",
		bookingID, resp.Tier, resp.RefundAmount)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
