package update_refund_policy

import (
	"github.com/bikawo/bikawo-booking-service/internal/domain"
	"github.com/bikawo/bikawo-booking-service/internal/service/policies/models"
)

// UpdateRefundPolicyRequest HTTP request model.
// Без serviceType изменяется глобальная политика.
type UpdateRefundPolicyRequest struct {
	ServiceType     *string  `json:"serviceType,omitempty" validate:"omitempty,max=64"`
	MoreThan24h     *float64 `json:"moreThan24h" validate:"required,gte=0,lte=100"`
	Between24hAnd2h *float64 `json:"between24hAnd2h" validate:"required,gte=0,lte=100"`
	LessThan2h      *float64 `json:"lessThan2h" validate:"required,gte=0,lte=100"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса.
// Вызывается после Validate, все проценты заданы.
func (r *UpdateRefundPolicyRequest) ToServiceRequest(actor domain.Actor) *models.UpdatePolicyRequest {
	return &models.UpdatePolicyRequest{
		Actor:           actor,
		ServiceType:     r.ServiceType,
		MoreThan24h:     *r.MoreThan24h,
		Between24hAnd2h: *r.Between24hAnd2h,
		LessThan2h:      *r.LessThan2h,
	}
}
