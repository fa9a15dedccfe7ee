package stripegateway

import (
	"github.com/google/uuid"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
)

// RefundRequest запрос на возврат средств по платежу бронирования
type RefundRequest struct {
	BookingID uuid.UUID
	// PaymentReference идентификатор платежа в Stripe: pi_... или ch_...
	PaymentReference string
	Amount           float64
	Currency         string
	Reason           string
}

// IdempotencyKey ключ, под которым шлюз выполняет не более одного возврата на бронирование
func (r *RefundRequest) IdempotencyKey() string {
	return "refund-" + r.BookingID.String()
}

// Refund результат возврата в шлюзе
type Refund struct {
	ID          string
	Status      domain.RefundStatus
	AmountCents int64
	Amount      float64
	Currency    string
}
