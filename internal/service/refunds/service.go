package refunds

import (
	"context"
	"fmt"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
	"github.com/bikawo/bikawo-booking-service/internal/service/refunds/models"
)

// Service сервис очереди сверки возвратов
type Service struct {
	paymentRepo PaymentRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса
func NewService(paymentRepo PaymentRepository, logger Logger) *Service {
	return &Service{
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// ListForReconciliation возвращает возвраты, требующие сверки (pending, failed, unknown, processing).
// Старые записи идут первыми. Доступно только администраторам.
func (s *Service) ListForReconciliation(ctx context.Context, actor domain.Actor) (*models.ReconciliationResponse, error) {
	if !actor.IsAdmin() {
		s.logger.Warn("ListForReconciliation: user=%s is not an admin", actor.UserID)
		return nil, ErrAccessDenied
	}

	payments, err := s.paymentRepo.ListForReconciliation(ctx)
	if err != nil {
		s.logger.Error("ListForReconciliation: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListForReconciliation - repository error: %v", ErrInternal, err)
	}

	if len(payments) > 0 {
		s.logger.Warn("ListForReconciliation: %d refunds require reconciliation", len(payments))
	}
	return models.FromDomainPayments(payments), nil
}
