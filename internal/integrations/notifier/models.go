package notifier

import (
	"time"

	"github.com/google/uuid"
)

// CancellationEvent уведомление второй стороны об отмене бронирования
type CancellationEvent struct {
	EventID          uuid.UUID `json:"eventId"`
	BookingID        uuid.UUID `json:"bookingId"`
	RecipientID      uuid.UUID `json:"recipientId"`
	RecipientRole    string    `json:"recipientRole"`
	RecipientName    string    `json:"recipientName,omitempty"`
	RecipientEmail   string    `json:"recipientEmail,omitempty"`
	CancelledBy      string    `json:"cancelledBy"`
	Reason           string    `json:"reason"`
	ServiceName      string    `json:"serviceName"`
	ServiceDate      string    `json:"serviceDate"`
	ServiceStartTime string    `json:"serviceStartTime"`
	RefundAmount     float64   `json:"refundAmount"`
	RefundPercentage float64   `json:"refundPercentage"`
	RefundStatus     string    `json:"refundStatus"`
	OccurredAt       time.Time `json:"occurredAt"`
}

// OperatorAlert оповещение операторов о возврате, требующем ручной сверки
type OperatorAlert struct {
	AlertID      uuid.UUID `json:"alertId"`
	BookingID    uuid.UUID `json:"bookingId"`
	PaymentID    uuid.UUID `json:"paymentId"`
	RefundStatus string    `json:"refundStatus"`
	RefundAmount float64   `json:"refundAmount"`
	Error        string    `json:"error"`
	OccurredAt   time.Time `json:"occurredAt"`
}
