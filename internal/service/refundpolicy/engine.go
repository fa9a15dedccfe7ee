// Package refundpolicy maps "how far in advance is this cancellation" to a
// refund percentage and amount. Everything here is pure: no I/O, the current
// time comes from an injected clock and the policy is passed in by the caller.
package refundpolicy

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/bikawo/bikawo-booking-service/internal/domain"
	"github.com/bikawo/bikawo-booking-service/pkg/money"
	"github.com/bikawo/bikawo-booking-service/pkg/types"
)

// ErrInvalidArgument is returned for malformed dates, times, prices or policies
var ErrInvalidArgument = errors.New("refundpolicy: invalid argument")

const (
	moreThanHours = 24.0
	atLeastHours  = 2.0
)

// Clock returns the current time
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// Engine builds service instants in a fixed location and computes refunds
type Engine struct {
	location *time.Location
	clock    Clock
}

// NewEngine creates an engine. location nil means UTC, clock nil means SystemClock.
func NewEngine(location *time.Location, clock Clock) *Engine {
	if location == nil {
		location = time.UTC
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Engine{location: location, clock: clock}
}

// Location returns the zone service instants are built in
func (e *Engine) Location() *time.Location {
	return e.location
}

// ServiceInstant combines a YYYY-MM-DD date and an HH:MM start time into an
// absolute instant in the engine's location.
func (e *Engine) ServiceInstant(serviceDate, serviceStartTime string) (time.Time, error) {
	day, err := time.ParseInLocation(domain.DateFormat, serviceDate, e.location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: service date %q: %v", ErrInvalidArgument, serviceDate, err)
	}

	start, err := types.NewTimeStringFromString(serviceStartTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: service start time %q: %v", ErrInvalidArgument, serviceStartTime, err)
	}

	instant, err := start.On(day, e.location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return instant, nil
}

// CalculateRefund computes the refund for a cancellation requested now
func (e *Engine) CalculateRefund(
	serviceDate string,
	serviceStartTime string,
	totalPrice float64,
	policy domain.RefundPolicy,
) (*domain.RefundResult, error) {
	instant, err := e.ServiceInstant(serviceDate, serviceStartTime)
	if err != nil {
		return nil, err
	}
	return CalculateRefundAt(instant, e.clock.Now(), totalPrice, policy)
}

// CalculateRefundAt computes the refund for a cancellation requested at now
// for a service starting at serviceInstant.
func CalculateRefundAt(
	serviceInstant time.Time,
	now time.Time,
	totalPrice float64,
	policy domain.RefundPolicy,
) (*domain.RefundResult, error) {
	if math.IsNaN(totalPrice) || math.IsInf(totalPrice, 0) || totalPrice < 0 {
		return nil, fmt.Errorf("%w: total price %v must be a non-negative amount", ErrInvalidArgument, totalPrice)
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	hours := HoursUntil(serviceInstant, now)
	tier := SelectTier(hours)
	percentage := policy.Percentage(tier)

	return &domain.RefundResult{
		RefundAmount:      money.Percentage(totalPrice, percentage),
		RefundPercentage:  percentage,
		Tier:              tier,
		HoursUntilService: hours,
		ServiceInstant:    serviceInstant,
	}, nil
}

// HoursUntil returns the fractional number of hours from now to instant.
// Negative when the instant has passed.
func HoursUntil(instant, now time.Time) float64 {
	return float64(instant.Sub(now)) / float64(time.Hour)
}

// SelectTier: > 24h, then [2h, 24h], then everything below 2h
func SelectTier(hoursUntilService float64) domain.RefundTier {
	switch {
	case hoursUntilService > moreThanHours:
		return domain.TierMoreThan24h
	case hoursUntilService >= atLeastHours:
		return domain.TierBetween24hAnd2h
	default:
		return domain.TierLessThan2h
	}
}
