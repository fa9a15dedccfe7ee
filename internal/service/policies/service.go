package policies

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
	policyRepo "github.com/bikawo/bikawo-booking-service/internal/infra/storage/policy"
	"github.com/bikawo/bikawo-booking-service/internal/service/policies/models"
)

// Service сервис политик возврата
type Service struct {
	policyRepo PolicyRepository
	txManager  TransactionManager
	fallback   domain.RefundPolicy
	logger     Logger
}

// NewService создает новый экземпляр сервиса политик.
// fallback применяется, когда в БД нет ни политики типа услуги, ни глобальной.
func NewService(
	policyRepo PolicyRepository,
	txManager TransactionManager,
	fallback domain.RefundPolicy,
	logger Logger,
) *Service {
	return &Service{
		policyRepo: policyRepo,
		txManager:  txManager,
		fallback:   fallback,
		logger:     logger,
	}
}

// Resolve возвращает действующую политику для типа услуги.
// Приоритет: политика типа услуги > глобальная политика > политика из конфигурации.
func (s *Service) Resolve(ctx context.Context, serviceType string) (*models.ResolvedPolicy, error) {
	var scope *string
	if serviceType != "" {
		scope = &serviceType
	}

	stored, err := s.policyRepo.GetWithHierarchy(ctx, scope)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			return s.configured(), nil
		}
		s.logger.Error("Resolve: repository error for service_type=%q: %v", serviceType, err)
		return nil, fmt.Errorf("%w: Resolve - repository error: %v", ErrInternal, err)
	}

	// Сохраненная политика могла быть записана в обход API
	if err := stored.Policy.Validate(); err != nil {
		s.logger.Error("Resolve: stored policy id=%d is invalid: %v", stored.ID, err)
		if stored.IsGlobal() {
			return s.configured(), nil
		}

		// Переходим на следующий уровень иерархии
		stored, err = s.policyRepo.GetByServiceType(ctx, nil)
		if err != nil {
			if errors.Is(err, policyRepo.ErrPolicyNotFound) {
				return s.configured(), nil
			}
			s.logger.Error("Resolve: repository error for global policy: %v", err)
			return nil, fmt.Errorf("%w: Resolve - repository error: %v", ErrInternal, err)
		}
		if err := stored.Policy.Validate(); err != nil {
			s.logger.Error("Resolve: global policy id=%d is invalid, using configured policy: %v", stored.ID, err)
			return s.configured(), nil
		}
	}

	source := models.SourceServiceType
	if stored.IsGlobal() {
		source = models.SourceGlobal
	}

	return &models.ResolvedPolicy{Policy: stored.Policy, Source: source, ServiceType: stored.ServiceType}, nil
}

func (s *Service) configured() *models.ResolvedPolicy {
	return &models.ResolvedPolicy{Policy: s.fallback, Source: models.SourceConfigured}
}

// Get возвращает действующую политику для типа услуги (или глобальную)
// Доступно только администраторам
func (s *Service) Get(ctx context.Context, actor domain.Actor, serviceType *string) (*models.PolicyResponse, error) {
	if !actor.IsAdmin() {
		s.logger.Warn("Get: user=%s is not an admin", actor.UserID)
		return nil, ErrAccessDenied
	}

	stored, err := s.policyRepo.GetWithHierarchy(ctx, serviceType)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			return models.FromConfiguredPolicy(s.fallback), nil
		}
		s.logger.Error("Get: repository error: %v", err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromStoredPolicy(stored), nil
}

// List возвращает все сохраненные политики
// Доступно только администраторам
func (s *Service) List(ctx context.Context, actor domain.Actor) (*models.PolicyListResponse, error) {
	if !actor.IsAdmin() {
		s.logger.Warn("List: user=%s is not an admin", actor.UserID)
		return nil, ErrAccessDenied
	}

	stored, err := s.policyRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	resp := &models.PolicyListResponse{Policies: make([]models.PolicyResponse, 0, len(stored))}
	for _, p := range stored {
		resp.Policies = append(resp.Policies, *models.FromStoredPolicy(p))
	}
	return resp, nil
}

// Update создает или изменяет политику для типа услуги (или глобальную)
// Доступно только администраторам
func (s *Service) Update(ctx context.Context, req *models.UpdatePolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("Update: updating refund policy service_type=%v by user=%s", req.ServiceType, req.Actor.UserID)

	// 1. Проверяем права доступа
	if !req.Actor.IsAdmin() {
		s.logger.Warn("Update: user=%s is not an admin", req.Actor.UserID)
		return nil, ErrAccessDenied
	}

	// 2. Валидируем входные данные
	if req.ServiceType != nil {
		trimmed := strings.TrimSpace(*req.ServiceType)
		if trimmed == "" || len(trimmed) > domain.MaxServiceTypeLength {
			return nil, fmt.Errorf("%w: serviceType must be 1..%d characters", ErrInvalidInput, domain.MaxServiceTypeLength)
		}
		req.ServiceType = &trimmed
	}

	policy := req.ToDomainPolicy()
	if err := policy.Validate(); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	updatedBy := req.Actor.UserID.String()
	toSave := &domain.StoredRefundPolicy{
		ServiceType: req.ServiceType,
		Policy:      policy,
		UpdatedBy:   &updatedBy,
	}

	// 3. Создаем или обновляем в одной транзакции
	var saved *domain.StoredRefundPolicy
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		existing, err := s.policyRepo.GetByServiceType(ctx, req.ServiceType)
		if err != nil && !errors.Is(err, policyRepo.ErrPolicyNotFound) {
			return err
		}

		if existing == nil {
			saved, err = s.policyRepo.Create(ctx, toSave)
			return err
		}

		saved, err = s.policyRepo.Update(ctx, existing.ID, toSave)
		return err
	})
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyExists) {
			s.logger.Warn("Update: concurrent create for service_type=%v: %v", req.ServiceType, err)
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		s.logger.Error("Update: failed to save refund policy: %v", err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: refund policy id=%d saved (%v/%v/%v)",
		saved.ID, policy.MoreThan24h, policy.Between24hAnd2h, policy.LessThan2h)
	return models.FromStoredPolicy(saved), nil
}
