package policies

import (
	"context"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
)

// PolicyRepository интерфейс репозитория политик возврата
type PolicyRepository interface {
	Create(ctx context.Context, policy *domain.StoredRefundPolicy) (*domain.StoredRefundPolicy, error)
	Update(ctx context.Context, id int64, policy *domain.StoredRefundPolicy) (*domain.StoredRefundPolicy, error)
	GetByServiceType(ctx context.Context, serviceType *string) (*domain.StoredRefundPolicy, error)
	GetWithHierarchy(ctx context.Context, serviceType *string) (*domain.StoredRefundPolicy, error)
	GetAll(ctx context.Context) ([]*domain.StoredRefundPolicy, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
