package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
)

// PendingRefundResponse возврат, требующий сверки оператором
type PendingRefundResponse struct {
	PaymentID        uuid.UUID `json:"paymentId"`
	BookingID        uuid.UUID `json:"bookingId"`
	PaymentStatus    string    `json:"paymentStatus"`
	RefundStatus     string    `json:"refundStatus"`
	Amount           float64   `json:"amount"`
	RefundAmount     float64   `json:"refundAmount"`
	Currency         string    `json:"currency"`
	GatewayReference *string   `json:"gatewayReference,omitempty"`
	RefundID         *string   `json:"refundId,omitempty"`
	RefundError      *string   `json:"refundError,omitempty"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ReconciliationResponse очередь сверки
type ReconciliationResponse struct {
	Refunds []PendingRefundResponse `json:"refunds"`
}

// FromDomainPayments конвертирует платежи в DTO
func FromDomainPayments(payments []*domain.Payment) *ReconciliationResponse {
	resp := &ReconciliationResponse{Refunds: make([]PendingRefundResponse, 0, len(payments))}

	for _, p := range payments {
		item := PendingRefundResponse{
			PaymentID:        p.ID,
			BookingID:        p.BookingID,
			PaymentStatus:    string(p.Status),
			Amount:           p.Amount,
			Currency:         p.Currency,
			GatewayReference: p.GatewayReference,
			RefundID:         p.RefundID,
			RefundError:      p.RefundError,
			UpdatedAt:        p.UpdatedAt,
		}
		if p.RefundStatus != nil {
			item.RefundStatus = string(*p.RefundStatus)
		}
		if p.RefundedAmount != nil {
			item.RefundAmount = *p.RefundedAmount
		}
		resp.Refunds = append(resp.Refunds, item)
	}

	return resp
}
