package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidRefundPolicy is returned when a percentage is not a number within [0,100]
var ErrInvalidRefundPolicy = errors.New("invalid refund policy")

// RefundPolicy maps the cancellation notice to a refund percentage.
// It is an immutable value: copy it, never share a pointer to a mutable instance.
type RefundPolicy struct {
	MoreThan24h     float64 // notice > 24h
	Between24hAnd2h float64 // 2h <= notice <= 24h
	LessThan2h      float64 // notice < 2h, including after the service started
}

// DefaultRefundPolicy is the table applied by the client booking workflow.
var DefaultRefundPolicy = RefundPolicy{MoreThan24h: 100, Between24hAnd2h: 50, LessThan2h: 0}

// AlternateRefundPolicy is the table applied by the refund back-office flow.
// It conflicts with DefaultRefundPolicy; which one is contractual is a product decision.
var AlternateRefundPolicy = RefundPolicy{MoreThan24h: 100, Between24hAnd2h: 70, LessThan2h: 30}

// Named presets selectable from configuration
const (
	PolicyPresetDefault   = "default"
	PolicyPresetAlternate = "alternate"
	PolicyPresetCustom    = "custom"
)

// Validate checks every percentage is a finite number within [0,100]
func (p RefundPolicy) Validate() error {
	check := func(name string, v float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 100 {
			return fmt.Errorf("%w: %s=%v must be within [0,100]", ErrInvalidRefundPolicy, name, v)
		}
		return nil
	}
	if err := check("moreThan24h", p.MoreThan24h); err != nil {
		return err
	}
	if err := check("between24hAnd2h", p.Between24hAnd2h); err != nil {
		return err
	}
	return check("lessThan2h", p.LessThan2h)
}

// RefundTier is one of the three cancellation-notice windows
type RefundTier string

const (
	TierMoreThan24h     RefundTier = "more_than_24h"
	TierBetween24hAnd2h RefundTier = "between_24h_and_2h"
	TierLessThan2h      RefundTier = "less_than_2h"
)

// Percentage returns the refund percentage of the policy for tier
func (p RefundPolicy) Percentage(tier RefundTier) float64 {
	switch tier {
	case TierMoreThan24h:
		return p.MoreThan24h
	case TierBetween24hAnd2h:
		return p.Between24hAnd2h
	default:
		return p.LessThan2h
	}
}

// RefundResult is the transient result of a refund calculation
type RefundResult struct {
	RefundAmount      float64
	RefundPercentage  float64
	Tier              RefundTier
	HoursUntilService float64
	ServiceInstant    time.Time
}

// StoredRefundPolicy is a refund policy persisted for a service type.
// ServiceType nil is the global policy.
type StoredRefundPolicy struct {
	ID          int64
	ServiceType *string
	Policy      RefundPolicy
	UpdatedBy   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsGlobal returns true if the policy applies to every service type
func (s *StoredRefundPolicy) IsGlobal() bool {
	return s.ServiceType == nil
}
