package update_booking_status

import (
	"github.com/bikawo/bikawo-booking-service/internal/domain"
	"github.com/bikawo/bikawo-booking-service/internal/service/bookings/models"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed assigned in_progress completed cancelled"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateStatusRequest) ToServiceRequest(actor domain.Actor) *models.UpdateStatusRequest {
	return &models.UpdateStatusRequest{
		Actor:  actor,
		Status: r.Status,
	}
}
