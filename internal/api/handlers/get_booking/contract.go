package get_booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
	"github.com/bikawo/bikawo-booking-service/internal/service/bookings/models"
)

type BookingService interface {
	GetByID(ctx context.Context, id uuid.UUID, actor domain.Actor) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
