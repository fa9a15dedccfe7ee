package models

import (
	"time"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
)

// Источник действующей политики
const (
	SourceServiceType = "service_type"
	SourceGlobal      = "global"
	SourceConfigured  = "configured"
)

// Request модели

// UpdatePolicyRequest запрос на изменение политики возврата.
// ServiceType nil - глобальная политика.
type UpdatePolicyRequest struct {
	Actor           domain.Actor
	ServiceType     *string `json:"serviceType,omitempty"`
	MoreThan24h     float64 `json:"moreThan24h"`
	Between24hAnd2h float64 `json:"between24hAnd2h"`
	LessThan2h      float64 `json:"lessThan2h"`
}

// ToDomainPolicy конвертирует request в domain модель
func (r *UpdatePolicyRequest) ToDomainPolicy() domain.RefundPolicy {
	return domain.RefundPolicy{
		MoreThan24h:     r.MoreThan24h,
		Between24hAnd2h: r.Between24hAnd2h,
		LessThan2h:      r.LessThan2h,
	}
}

// Response модели

// ResolvedPolicy действующая политика и уровень, на котором она найдена
type ResolvedPolicy struct {
	Policy      domain.RefundPolicy
	Source      string
	ServiceType *string
}

// PolicyResponse ответ с данными политики возврата
type PolicyResponse struct {
	ID              *int64     `json:"id,omitempty"`
	ServiceType     *string    `json:"serviceType,omitempty"`
	Source          string     `json:"source"`
	MoreThan24h     float64    `json:"moreThan24h"`
	Between24hAnd2h float64    `json:"between24hAnd2h"`
	LessThan2h      float64    `json:"lessThan2h"`
	UpdatedBy       *string    `json:"updatedBy,omitempty"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// PolicyListResponse ответ со списком сохраненных политик
type PolicyListResponse struct {
	Policies []PolicyResponse `json:"policies"`
}

// Методы конвертации

// FromStoredPolicy конвертирует сохраненную политику в DTO
func FromStoredPolicy(p *domain.StoredRefundPolicy) *PolicyResponse {
	if p == nil {
		return nil
	}

	id := p.ID
	updatedAt := p.UpdatedAt
	source := SourceServiceType
	if p.IsGlobal() {
		source = SourceGlobal
	}

	return &PolicyResponse{
		ID:              &id,
		ServiceType:     p.ServiceType,
		Source:          source,
		MoreThan24h:     p.Policy.MoreThan24h,
		Between24hAnd2h: p.Policy.Between24hAnd2h,
		LessThan2h:      p.Policy.LessThan2h,
		UpdatedBy:       p.UpdatedBy,
		UpdatedAt:       &updatedAt,
	}
}

// FromConfiguredPolicy конвертирует политику из конфигурации в DTO
func FromConfiguredPolicy(p domain.RefundPolicy) *PolicyResponse {
	return &PolicyResponse{
		Source:          SourceConfigured,
		MoreThan24h:     p.MoreThan24h,
		Between24hAnd2h: p.Between24hAnd2h,
		LessThan2h:      p.LessThan2h,
	}
}
