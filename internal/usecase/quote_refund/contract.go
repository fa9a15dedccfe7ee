package quote_refund

import (
	"context"

	"github.com/google/uuid"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
	policyModels "github.com/bikawo/bikawo-booking-service/internal/service/policies/models"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
}

// PolicyResolver выбирает действующую политику возврата для типа услуги
type PolicyResolver interface {
	Resolve(ctx context.Context, serviceType string) (*policyModels.ResolvedPolicy, error)
}

// RefundCalculator расчет суммы возврата
type RefundCalculator interface {
	CalculateRefund(serviceDate, serviceStartTime string, totalPrice float64, policy domain.RefundPolicy) (*domain.RefundResult, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
