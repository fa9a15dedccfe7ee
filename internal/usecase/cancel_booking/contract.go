package cancel_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
	"github.com/bikawo/bikawo-booking-service/internal/integrations/notifier"
	"github.com/bikawo/bikawo-booking-service/internal/integrations/profiles"
	"github.com/bikawo/bikawo-booking-service/internal/integrations/stripegateway"
	policyModels "github.com/bikawo/bikawo-booking-service/internal/service/policies/models"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	Cancel(ctx context.Context, id uuid.UUID, cancelledBy domain.CancelledBy, reason string) error
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*domain.Payment, error)
	RecordRefund(ctx context.Context, payment *domain.Payment, outcome domain.RefundOutcome) error
}

// PolicyResolver выбирает действующую политику возврата для типа услуги
type PolicyResolver interface {
	Resolve(ctx context.Context, serviceType string) (*policyModels.ResolvedPolicy, error)
}

// RefundCalculator расчет суммы возврата
type RefundCalculator interface {
	CalculateRefund(serviceDate, serviceStartTime string, totalPrice float64, policy domain.RefundPolicy) (*domain.RefundResult, error)
}

// PaymentGateway интерфейс платежного шлюза
type PaymentGateway interface {
	Refund(ctx context.Context, req *stripegateway.RefundRequest) (*stripegateway.Refund, error)
}

// Notifier интерфейс отправки уведомлений
type Notifier interface {
	NotifyCancellation(ctx context.Context, event *notifier.CancellationEvent) error
	AlertOperators(ctx context.Context, alert *notifier.OperatorAlert) error
}

// ProfileClient интерфейс клиента профилей пользователей
type ProfileClient interface {
	GetProfileWithGracefulDegradation(ctx context.Context, userID uuid.UUID) (*profiles.Profile, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics доменные метрики отмен и возвратов
type Metrics interface {
	RecordCancellation(cancelledBy string)
	RecordRefund(outcome string, amount float64)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
