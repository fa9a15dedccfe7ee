package cancel_booking

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID == uuid.Nil {
		return fmt.Errorf("%w: bookingId is required", ErrInvalidArgument)
	}

	if req.Actor.UserID == uuid.Nil {
		return fmt.Errorf("%w: actor is required", ErrInvalidArgument)
	}

	if !req.CancelledBy.IsValid() {
		return fmt.Errorf("%w: cancelledBy must be client or provider, got %q", ErrInvalidArgument, req.CancelledBy)
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return fmt.Errorf("%w: reason is required", ErrInvalidArgument)
	}
	if utf8.RuneCountInString(reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidArgument, domain.MaxCancellationReasonLength)
	}

	return nil
}

// validateBookingState проверяет, что бронирование еще можно отменить
func validateBookingState(booking *domain.Booking) error {
	if booking.IsCancelled() {
		return ErrAlreadyCancelled
	}
	if !booking.CanBeCancelled() {
		return fmt.Errorf("%w: booking is %s", ErrCannotCancel, booking.Status)
	}
	return nil
}
