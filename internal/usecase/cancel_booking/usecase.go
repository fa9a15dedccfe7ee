package cancel_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
	bookingRepo "github.com/bikawo/bikawo-booking-service/internal/infra/storage/booking"
	paymentRepo "github.com/bikawo/bikawo-booking-service/internal/infra/storage/payment"
	"github.com/bikawo/bikawo-booking-service/internal/integrations/notifier"
	"github.com/bikawo/bikawo-booking-service/internal/integrations/stripegateway"
)

const (
	defaultRefundTimeout = 10 * time.Second

	warningRefundFailed  = "Cancellation accepted, but the refund could not be processed. Our team has been notified and will complete it manually."
	warningRefundUnknown = "Cancellation accepted, but the refund status is unknown and requires reconciliation. Our team has been notified."

	warningRefundProcessing = "Cancellation accepted. The refund is being processed by the payment provider and our team will confirm it."
)

// Config параметры сценария отмены
type Config struct {
	RefundTimeout time.Duration // Таймаут вызова платежного шлюза
	Currency      string        // Валюта возврата
}

// UseCase use case отмены бронирования с возвратом средств
type UseCase struct {
	bookingRepo  BookingRepository
	paymentRepo  PaymentRepository
	policies     PolicyResolver
	calculator   RefundCalculator
	gateway      PaymentGateway
	notifier     Notifier
	profiles     ProfileClient
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	cfg          Config
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// profiles может быть nil: уведомления тогда уходят без имени и email получателя.
func NewUseCase(
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	policies PolicyResolver,
	calculator RefundCalculator,
	gateway PaymentGateway,
	notify Notifier,
	profiles ProfileClient,
	txManager TransactionManager,
	metrics Metrics,
	cfg Config,
	logger Logger,
) *UseCase {
	if cfg.RefundTimeout <= 0 {
		cfg.RefundTimeout = defaultRefundTimeout
	}
	if cfg.Currency == "" {
		cfg.Currency = domain.DefaultCurrency
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}

	return &UseCase{
		bookingRepo:  bookingRepo,
		paymentRepo:  paymentRepo,
		policies:     policies,
		calculator:   calculator,
		gateway:      gateway,
		notifier:     notify,
		profiles:     profiles,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		cfg:          cfg,
		logger:       logger,
	}
}

// cancellation состояние, зафиксированное транзакцией отмены
type cancellation struct {
	booking *domain.Booking
	payment *domain.Payment
	refund  *domain.RefundResult
	outcome domain.RefundOutcome
	// callGateway true, если возврат нужно запросить у шлюза после коммита
	callGateway bool
}

// Execute выполняет use case отмены бронирования.
// Отмена фиксируется в БД до обращения к шлюзу и не откатывается при ошибке возврата.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%s, cancelled_by=%s, user=%s",
		req.BookingID, req.CancelledBy, req.Actor.UserID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		return nil, err
	}
	reason := strings.TrimSpace(req.Reason)

	// 2. Отмена в одной транзакции: блокировка, расчет, условное обновление, запись pending
	var c *cancellation
	err := uc.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		c, err = uc.cancelInTx(ctx, req, reason)
		return err
	})
	if err != nil {
		if isClassified(err) {
			return nil, err
		}
		uc.logger.Error("CancelBooking: transaction failed for booking=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: transaction failed: %v", ErrPersistence, err)
	}

	uc.metrics.RecordCancellation(string(req.CancelledBy))
	uc.logger.Info("CancelBooking: booking=%s cancelled, tier=%s, refund=%.2f (%.0f%%)",
		req.BookingID, c.refund.Tier, c.refund.RefundAmount, c.refund.RefundPercentage)

	// 3. Запрашиваем возврат у шлюза и сохраняем результат
	if c.callGateway {
		c.outcome = uc.requestRefund(ctx, c, reason)
		uc.recordOutcome(ctx, c)
	}
	uc.metrics.RecordRefund(string(c.outcome.Status), c.outcome.Amount)

	// 4. Уведомляем вторую сторону и операторов
	uc.notifyCounterParty(ctx, c, req.CancelledBy, reason)
	if c.outcome.Status.NeedsReconciliation() {
		uc.alertOperators(ctx, c)
	}

	return buildResponse(c), nil
}

// cancelInTx выполняет шаги, которые должны быть атомарными
func (uc *UseCase) cancelInTx(ctx context.Context, req *Request, reason string) (*cancellation, error) {
	// 2.1 Бронирование (FOR UPDATE внутри транзакции)
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("CancelBooking: booking=%s not found", req.BookingID)
			return nil, ErrNotFound
		}
		uc.logger.Error("CancelBooking: failed to get booking=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrPersistence, err)
	}

	// 2.2 Права доступа
	if !req.Actor.CanActAs(booking, req.CancelledBy) {
		uc.logger.Warn("CancelBooking: user=%s cannot cancel booking=%s as %s",
			req.Actor.UserID, req.BookingID, req.CancelledBy)
		return nil, ErrAccessDenied
	}

	// 2.3 Статус
	if err := validateBookingState(booking); err != nil {
		uc.logger.Warn("CancelBooking: booking=%s cannot be cancelled: status=%s", req.BookingID, booking.Status)
		return nil, err
	}

	// 2.4 Политика и расчет возврата
	policy, err := uc.policies.Resolve(ctx, booking.ServiceType)
	if err != nil {
		uc.logger.Error("CancelBooking: failed to resolve refund policy for booking=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to resolve refund policy: %v", ErrPersistence, err)
	}

	refund, err := uc.calculator.CalculateRefund(
		booking.BookingDate.Format(domain.DateFormat),
		booking.StartTime.String(),
		booking.TotalPrice,
		policy.Policy,
	)
	if err != nil {
		uc.logger.Error("CancelBooking: refund calculation failed for booking=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	uc.logger.Info("CancelBooking: booking=%s, policy source=%s, hours until service=%.2f",
		req.BookingID, policy.Source, refund.HoursUntilService)

	// 2.5 Платеж (может отсутствовать)
	payment, err := uc.paymentRepo.GetByBookingID(ctx, req.BookingID)
	if err != nil && !errors.Is(err, paymentRepo.ErrPaymentNotFound) {
		uc.logger.Error("CancelBooking: failed to get payment for booking=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get payment: %v", ErrPersistence, err)
	}

	// 2.6 Условное обновление: не более одной отмены на бронирование
	if err := uc.bookingRepo.Cancel(ctx, req.BookingID, req.CancelledBy, reason); err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			uc.logger.Warn("CancelBooking: booking=%s was cancelled concurrently", req.BookingID)
			return nil, ErrAlreadyCancelled
		}
		uc.logger.Error("CancelBooking: failed to cancel booking=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to cancel booking: %v", ErrPersistence, err)
	}

	now := uc.timeProvider.Now()
	booking.Status = domain.StatusCancelled
	booking.CancelledBy = &req.CancelledBy
	booking.CancellationReason = &reason
	booking.CancelledAt = &now

	c := &cancellation{
		booking: booking,
		payment: payment,
		refund:  refund,
		outcome: uc.initialOutcome(refund, payment, now),
	}
	c.callGateway = c.outcome.Status == domain.RefundPending

	// 2.7 Фиксируем намерение вернуть средства до вызова шлюза
	if payment != nil {
		if err := uc.paymentRepo.RecordRefund(ctx, payment, c.outcome); err != nil {
			uc.logger.Error("CancelBooking: failed to record refund intent for payment=%s: %v", payment.ID, err)
			return nil, fmt.Errorf("%w: failed to record refund: %v", ErrPersistence, err)
		}
	}

	return c, nil
}

// initialOutcome определяет, нужен ли вызов шлюза
func (uc *UseCase) initialOutcome(refund *domain.RefundResult, payment *domain.Payment, now time.Time) domain.RefundOutcome {
	outcome := domain.RefundOutcome{Status: domain.RefundNotRequired, Timestamp: now}

	if refund.RefundAmount <= 0 || payment == nil || payment.Status != domain.PaymentPaid {
		return outcome
	}

	outcome.Amount = refund.RefundAmount
	if !payment.IsRefundable() {
		// Платеж оплачен, но ссылки на платеж в шлюзе нет: вернуть автоматически нельзя
		msg := "payment has no gateway reference"
		outcome.Status = domain.RefundFailed
		outcome.Error = &msg
		return outcome
	}

	outcome.Status = domain.RefundPending
	return outcome
}

// requestRefund вызывает шлюз с явным таймаутом.
// Таймаут означает, что результат неизвестен: возврат мог пройти.
func (uc *UseCase) requestRefund(ctx context.Context, c *cancellation, reason string) domain.RefundOutcome {
	// Вызов не должен прерываться, если клиент закрыл соединение после коммита отмены
	gatewayCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.cfg.RefundTimeout)
	defer cancel()

	req := &stripegateway.RefundRequest{
		BookingID:        c.booking.ID,
		PaymentReference: *c.payment.GatewayReference,
		Amount:           c.refund.RefundAmount,
		Currency:         uc.cfg.Currency,
		Reason:           reason,
	}

	outcome := domain.RefundOutcome{Amount: c.refund.RefundAmount}
	refund, err := uc.gateway.Refund(gatewayCtx, req)
	outcome.Timestamp = uc.timeProvider.Now()

	switch {
	case err == nil:
		outcome.Status = refund.Status
		outcome.RefundID = &refund.ID
		uc.logger.Info("CancelBooking: refund %s for booking=%s: status=%s, amount=%.2f",
			refund.ID, c.booking.ID, refund.Status, c.refund.RefundAmount)
	case errors.Is(err, stripegateway.ErrTimeout) || errors.Is(err, context.DeadlineExceeded):
		msg := err.Error()
		outcome.Status = domain.RefundUnknown
		outcome.Error = &msg
		uc.logger.Error("CancelBooking: refund for booking=%s timed out after %s, requires reconciliation: %v",
			c.booking.ID, uc.cfg.RefundTimeout, err)
	default:
		msg := err.Error()
		outcome.Status = domain.RefundFailed
		outcome.Error = &msg
		uc.logger.Error("CancelBooking: refund for booking=%s failed: %v", c.booking.ID, err)
	}

	return outcome
}

// recordOutcome сохраняет результат возврата. При ошибке запись остается pending
// и попадает в очередь сверки.
func (uc *UseCase) recordOutcome(ctx context.Context, c *cancellation) {
	if err := uc.paymentRepo.RecordRefund(context.WithoutCancel(ctx), c.payment, c.outcome); err != nil {
		uc.logger.Error("CancelBooking: failed to record refund outcome %s for payment=%s: %v",
			c.outcome.Status, c.payment.ID, err)
	}
}

// notifyCounterParty уведомляет сторону, которая не инициировала отмену.
// Ошибки уведомлений только логируются.
func (uc *UseCase) notifyCounterParty(ctx context.Context, c *cancellation, cancelledBy domain.CancelledBy, reason string) {
	recipientID, role, ok := c.booking.CounterParty(cancelledBy)
	if !ok {
		uc.logger.Info("CancelBooking: booking=%s has no assigned provider, skipping notification", c.booking.ID)
		return
	}

	event := &notifier.CancellationEvent{
		EventID:          uuid.New(),
		BookingID:        c.booking.ID,
		RecipientID:      recipientID,
		RecipientRole:    string(role),
		CancelledBy:      string(cancelledBy),
		Reason:           reason,
		ServiceName:      c.booking.ServiceName,
		ServiceDate:      c.booking.BookingDate.Format(domain.DateFormat),
		ServiceStartTime: c.booking.StartTime.String(),
		RefundAmount:     c.refund.RefundAmount,
		RefundPercentage: c.refund.RefundPercentage,
		RefundStatus:     string(c.outcome.Status),
		OccurredAt:       uc.timeProvider.Now(),
	}

	if uc.profiles != nil {
		profile, err := uc.profiles.GetProfileWithGracefulDegradation(ctx, recipientID)
		if err != nil {
			uc.logger.Warn("CancelBooking: profile of user=%s unavailable, notifying without contact details: %v", recipientID, err)
		} else {
			event.RecipientName = profile.DisplayName()
			event.RecipientEmail = profile.Email
		}
	}

	if err := uc.notifier.NotifyCancellation(context.WithoutCancel(ctx), event); err != nil {
		uc.logger.Error("CancelBooking: failed to notify %s=%s about booking=%s: %v",
			role, recipientID, c.booking.ID, err)
	}
}

// alertOperators оповещает операторов о возврате, требующем ручной сверки
func (uc *UseCase) alertOperators(ctx context.Context, c *cancellation) {
	alert := &notifier.OperatorAlert{
		AlertID:      uuid.New(),
		BookingID:    c.booking.ID,
		RefundStatus: string(c.outcome.Status),
		RefundAmount: c.outcome.Amount,
		OccurredAt:   uc.timeProvider.Now(),
	}
	if c.payment != nil {
		alert.PaymentID = c.payment.ID
	}
	if c.outcome.Error != nil {
		alert.Error = *c.outcome.Error
	}

	if err := uc.notifier.AlertOperators(context.WithoutCancel(ctx), alert); err != nil {
		// Последний канал: оповещение есть хотя бы в логе
		uc.logger.Error("CancelBooking: OPERATOR ALERT NOT DELIVERED: booking=%s, refund status=%s, amount=%.2f: %v",
			c.booking.ID, c.outcome.Status, c.outcome.Amount, err)
	}
}

func buildResponse(c *cancellation) *Response {
	resp := &Response{
		Success:          true,
		BookingID:        c.booking.ID,
		RefundAmount:     c.refund.RefundAmount,
		RefundPercentage: c.refund.RefundPercentage,
		Tier:             c.refund.Tier,
		RefundStatus:     c.outcome.Status,
		RefundID:         c.outcome.RefundID,
	}

	var warning string
	switch c.outcome.Status {
	case domain.RefundFailed:
		warning = warningRefundFailed
	case domain.RefundUnknown:
		warning = warningRefundUnknown
	case domain.RefundProcessing:
		warning = warningRefundProcessing
	default:
		return resp
	}

	resp.Warning = &warning
	detail := string(c.outcome.Status)
	if c.outcome.Error != nil {
		detail = *c.outcome.Error
	}
	resp.GatewayErr = fmt.Errorf("%w: %s", ErrGateway, detail)
	return resp
}

type noopMetrics struct{}

func (noopMetrics) RecordCancellation(string)    {}
func (noopMetrics) RecordRefund(string, float64) {}

// isClassified возвращает true для ошибок, уже приведенных к ошибкам use case
func isClassified(err error) bool {
	for _, known := range []error{
		ErrInvalidArgument, ErrNotFound, ErrAccessDenied,
		ErrAlreadyCancelled, ErrCannotCancel, ErrPersistence,
	} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}
