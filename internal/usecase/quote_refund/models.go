package quote_refund

import (
	"time"

	"github.com/google/uuid"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
)

// Request модель запроса предварительного расчета возврата
type Request struct {
	BookingID uuid.UUID
	Actor     domain.Actor
}

// Response сумма, которую получит клиент при отмене сейчас
type Response struct {
	BookingID         uuid.UUID
	TotalPrice        float64
	RefundAmount      float64
	RefundPercentage  float64
	Tier              domain.RefundTier
	HoursUntilService float64
	ServiceInstant    time.Time
	PolicySource      string
	Policy            domain.RefundPolicy
}
