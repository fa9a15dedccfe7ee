package stripegateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/refund"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
	"github.com/bikawo/bikawo-booking-service/pkg/money"
)

// Config параметры подключения к Stripe
type Config struct {
	SecretKey string
	// BaseURL пустой - api.stripe.com
	BaseURL           string
	MaxNetworkRetries int64
}

// Client клиент возвратов Stripe
type Client struct {
	refunds refund.Client
	log     Logger
}

// NewClient создает новый экземпляр клиента Stripe
func NewClient(cfg Config, log Logger) *Client {
	backendConfig := &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(cfg.MaxNetworkRetries),
		LeveledLogger:     &leveledLogger{log: log},
	}
	if cfg.BaseURL != "" {
		backendConfig.URL = stripe.String(cfg.BaseURL)
	}

	return &Client{
		refunds: refund.Client{
			B:   stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig),
			Key: cfg.SecretKey,
		},
		log: log,
	}
}

// Refund создает возврат в Stripe.
// Повторный вызов для того же бронирования возвращает уже созданный возврат (idempotency key).
func (c *Client) Refund(ctx context.Context, req *RefundRequest) (*Refund, error) {
	cents, err := money.ToMinorUnits(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if cents == 0 {
		return nil, fmt.Errorf("%w: refund amount is zero", ErrInvalidRequest)
	}

	params := &stripe.RefundParams{
		Amount: stripe.Int64(cents),
		Reason: stripe.String(string(stripe.RefundReasonRequestedByCustomer)),
	}

	switch {
	case strings.HasPrefix(req.PaymentReference, "pi_"):
		params.PaymentIntent = stripe.String(req.PaymentReference)
	case strings.HasPrefix(req.PaymentReference, "ch_"):
		params.Charge = stripe.String(req.PaymentReference)
	default:
		return nil, fmt.Errorf("%w: unsupported payment reference %q", ErrInvalidRequest, req.PaymentReference)
	}

	params.Context = ctx
	params.SetIdempotencyKey(req.IdempotencyKey())
	params.AddMetadata("booking_id", req.BookingID.String())
	if req.Reason != "" {
		params.AddMetadata("cancellation_reason", req.Reason)
	}

	c.log.Info("Requesting refund: booking_id=%s, amount_cents=%d, reference=%s",
		req.BookingID, cents, req.PaymentReference)

	r, err := c.refunds.New(params)
	if err != nil {
		return nil, c.classify(ctx, req, err)
	}

	result := &Refund{
		ID:          r.ID,
		Status:      mapStatus(r.Status),
		AmountCents: r.Amount,
		Amount:      money.FromMinorUnits(r.Amount),
		Currency:    string(r.Currency),
	}

	if result.Status == domain.RefundFailed {
		return nil, fmt.Errorf("%w: refund %s has status %s", ErrRejected, r.ID, r.Status)
	}

	c.log.Info("Refund created: booking_id=%s, refund_id=%s, status=%s", req.BookingID, r.ID, r.Status)
	return result, nil
}

func (c *Client) classify(ctx context.Context, req *RefundRequest, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		c.log.Error("Refund timed out: booking_id=%s: %v", req.BookingID, err)
		return fmt.Errorf("%w: booking_id=%s: %v", ErrTimeout, req.BookingID, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		c.log.Error("Refund timed out: booking_id=%s: %v", req.BookingID, err)
		return fmt.Errorf("%w: booking_id=%s: %v", ErrTimeout, req.BookingID, err)
	}

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		c.log.Error("Stripe rejected refund: booking_id=%s, status=%d, code=%s: %s",
			req.BookingID, stripeErr.HTTPStatusCode, stripeErr.Code, stripeErr.Msg)
		if stripeErr.HTTPStatusCode >= 500 {
			return fmt.Errorf("%w: %s", ErrUnavailable, stripeErr.Msg)
		}
		return fmt.Errorf("%w: %s (%s)", ErrRejected, stripeErr.Msg, stripeErr.Code)
	}

	c.log.Error("Refund request failed: booking_id=%s: %v", req.BookingID, err)
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func mapStatus(status stripe.RefundStatus) domain.RefundStatus {
	switch status {
	case stripe.RefundStatusSucceeded:
		return domain.RefundSucceeded
	case stripe.RefundStatusFailed, stripe.RefundStatusCanceled:
		return domain.RefundFailed
	default:
		// pending, requires_action
		return domain.RefundProcessing
	}
}

// leveledLogger пробрасывает логи stripe-go в логгер сервиса
type leveledLogger struct {
	log Logger
}

func (l *leveledLogger) Debugf(format string, v ...interface{}) {}

func (l *leveledLogger) Infof(format string, v ...interface{}) {}

func (l *leveledLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn("stripe: "+format, v...)
}

func (l *leveledLogger) Errorf(format string, v ...interface{}) {
	l.log.Error("stripe: "+format, v...)
}

// DisabledClient используется, когда шлюз выключен в конфигурации.
// Каждый возврат завершается ErrDisabled и попадает в очередь сверки.
type DisabledClient struct{}

// Refund всегда возвращает ErrDisabled
func (DisabledClient) Refund(ctx context.Context, req *RefundRequest) (*Refund, error) {
	return nil, fmt.Errorf("%w: refund for booking %s was not sent", ErrDisabled, req.BookingID)
}
