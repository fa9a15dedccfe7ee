package cancel_booking

import (
	"strings"

	"github.com/google/uuid"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
	cancelUseCase "github.com/bikawo/bikawo-booking-service/internal/usecase/cancel_booking"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	Reason      string `json:"reason" validate:"required,max=500"`
	CancelledBy string `json:"cancelledBy" validate:"required,oneof=client provider"`
}

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	Success          bool    `json:"success"`
	RefundAmount     float64 `json:"refundAmount"`
	RefundPercentage float64 `json:"refundPercentage"`
	RefundStatus     string  `json:"refundStatus,omitempty"`
	RefundID         *string `json:"refundId,omitempty"`
	Warning          *string `json:"warning,omitempty"`
	Error            string  `json:"error,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель сценария отмены
func (r *CancelBookingRequest) ToUseCaseRequest(bookingID uuid.UUID, actor domain.Actor) *cancelUseCase.Request {
	return &cancelUseCase.Request{
		BookingID:   bookingID,
		Actor:       actor,
		CancelledBy: domain.CancelledBy(r.CancelledBy),
		Reason:      strings.TrimSpace(r.Reason),
	}
}

// FromUseCaseResponse конвертирует результат отмены в HTTP ответ
func FromUseCaseResponse(resp *cancelUseCase.Response) *CancelBookingResponse {
	return &CancelBookingResponse{
		Success:          resp.Success,
		RefundAmount:     resp.RefundAmount,
		RefundPercentage: resp.RefundPercentage,
		RefundStatus:     string(resp.RefundStatus),
		RefundID:         resp.RefundID,
		Warning:          resp.Warning,
	}
}

// failure тело ответа при неудачной отмене
func failure(message string) *CancelBookingResponse {
	return &CancelBookingResponse{Success: false, Error: message}
}
