package quote_refund

import (
	"time"

	"github.com/google/uuid"

	quoteUseCase "github.com/bikawo/bikawo-booking-service/internal/usecase/quote_refund"
)

// PolicyResponse проценты действующей политики
type PolicyResponse struct {
	MoreThan24h     float64 `json:"moreThan24h"`
	Between24hAnd2h float64 `json:"between24hAnd2h"`
	LessThan2h      float64 `json:"lessThan2h"`
	Source          string  `json:"source"`
}

// RefundQuoteResponse HTTP response model
type RefundQuoteResponse struct {
	BookingID         uuid.UUID      `json:"bookingId"`
	TotalPrice        float64        `json:"totalPrice"`
	RefundAmount      float64        `json:"refundAmount"`
	RefundPercentage  float64        `json:"refundPercentage"`
	Tier              string         `json:"tier"`
	HoursUntilService float64        `json:"hoursUntilService"`
	ServiceStartsAt   time.Time      `json:"serviceStartsAt"`
	Policy            PolicyResponse `json:"policy"`
}

// FromUseCaseResponse конвертирует результат расчета в HTTP ответ
func FromUseCaseResponse(resp *quoteUseCase.Response) *RefundQuoteResponse {
	return &RefundQuoteResponse{
		BookingID:         resp.BookingID,
		TotalPrice:        resp.TotalPrice,
		RefundAmount:      resp.RefundAmount,
		RefundPercentage:  resp.RefundPercentage,
		Tier:              string(resp.Tier),
		HoursUntilService: resp.HoursUntilService,
		ServiceStartsAt:   resp.ServiceInstant,
		Policy: PolicyResponse{
			MoreThan24h:     resp.Policy.MoreThan24h,
			Between24hAnd2h: resp.Policy.Between24hAnd2h,
			LessThan2h:      resp.Policy.LessThan2h,
			Source:          resp.PolicySource,
		},
	}
}
