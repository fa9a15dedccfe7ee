package refunds

import (
	"context"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
)

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	ListForReconciliation(ctx context.Context) ([]*domain.Payment, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
