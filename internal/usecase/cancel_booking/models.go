package cancel_booking

import (
	"github.com/google/uuid"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
)

// Request модель запроса на отмену бронирования
type Request struct {
	BookingID   uuid.UUID          // ID бронирования
	Actor       domain.Actor       // Аутентифицированный пользователь
	CancelledBy domain.CancelledBy // Сторона, от имени которой выполняется отмена
	Reason      string             // Причина отмены
}

// Response модель ответа на отмену
type Response struct {
	Success          bool
	BookingID        uuid.UUID
	RefundAmount     float64
	RefundPercentage float64
	Tier             domain.RefundTier
	RefundStatus     domain.RefundStatus
	RefundID         *string

	// Warning заполняется, когда отмена принята, а возврат не прошел или его результат неизвестен
	Warning *string
	// GatewayErr оборачивает ErrGateway, если Warning заполнен
	GatewayErr error
}

// HasWarning возвращает true, если возврат требует внимания оператора
func (r *Response) HasWarning() bool {
	return r.Warning != nil
}
