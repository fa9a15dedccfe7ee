package quote_refund

import (
	"context"
	"errors"
	"fmt"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
	bookingRepo "github.com/bikawo/bikawo-booking-service/internal/infra/storage/booking"
)

// UseCase предварительный расчет возврата без побочных эффектов
type UseCase struct {
	bookingRepo BookingRepository
	policies    PolicyResolver
	calculator  RefundCalculator
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	policies PolicyResolver,
	calculator RefundCalculator,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		policies:    policies,
		calculator:  calculator,
		logger:      logger,
	}
}

// Execute считает возврат по той же политике и тем же правилам, что и отмена
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Получаем бронирование
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrNotFound
		}
		uc.logger.Error("QuoteRefund: failed to get booking=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	// 2. Проверяем права доступа
	if !req.Actor.CanView(booking) {
		uc.logger.Warn("QuoteRefund: access denied for user=%s to booking=%s", req.Actor.UserID, req.BookingID)
		return nil, ErrAccessDenied
	}

	// 3. Отмененное или завершенное бронирование отменить нельзя
	if !booking.CanBeCancelled() {
		return nil, fmt.Errorf("%w: booking is %s", ErrNotCancellable, booking.Status)
	}

	// 4. Политика и расчет
	policy, err := uc.policies.Resolve(ctx, booking.ServiceType)
	if err != nil {
		uc.logger.Error("QuoteRefund: failed to resolve refund policy for booking=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to resolve refund policy: %v", ErrInternal, err)
	}

	refund, err := uc.calculator.CalculateRefund(
		booking.BookingDate.Format(domain.DateFormat),
		booking.StartTime.String(),
		booking.TotalPrice,
		policy.Policy,
	)
	if err != nil {
		uc.logger.Error("QuoteRefund: refund calculation failed for booking=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	return &Response{
		BookingID:         booking.ID,
		TotalPrice:        booking.TotalPrice,
		RefundAmount:      refund.RefundAmount,
		RefundPercentage:  refund.RefundPercentage,
		Tier:              refund.Tier,
		HoursUntilService: refund.HoursUntilService,
		ServiceInstant:    refund.ServiceInstant,
		PolicySource:      policy.Source,
		Policy:            policy.Policy,
	}, nil
}
