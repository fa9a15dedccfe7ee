package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is the capture state of a booking payment
type PaymentStatus string

const (
	PaymentPending           PaymentStatus = "pending"
	PaymentPaid              PaymentStatus = "paid"
	PaymentRefunded          PaymentStatus = "refunded"
	PaymentPartiallyRefunded PaymentStatus = "partially_refunded"
	PaymentFailed            PaymentStatus = "failed"
)

// RefundStatus is the outcome of a refund request against the gateway
type RefundStatus string

const (
	// RefundNotRequired nothing to refund (0% tier or unpaid booking)
	RefundNotRequired RefundStatus = "not_required"
	// RefundPending recorded before the gateway call, replaced once it returns
	RefundPending   RefundStatus = "pending"
	RefundSucceeded RefundStatus = "succeeded"
	RefundFailed    RefundStatus = "failed"
	// RefundProcessing the gateway accepted the refund but has not settled it
	// (pending or requires_action); an operator confirms it in the gateway dashboard
	RefundProcessing RefundStatus = "processing"
	// RefundUnknown the gateway call timed out; requires reconciliation
	RefundUnknown RefundStatus = "unknown"
)

// NeedsReconciliation returns true for outcomes an operator has to look at
func (s RefundStatus) NeedsReconciliation() bool {
	switch s {
	case RefundPending, RefundFailed, RefundUnknown, RefundProcessing:
		return true
	default:
		return false
	}
}

// ReconciliationStatuses refund statuses listed in the operator queue
var ReconciliationStatuses = []RefundStatus{RefundPending, RefundFailed, RefundUnknown, RefundProcessing}

// Payment is the payment record attached to a booking
type Payment struct {
	ID               uuid.UUID
	BookingID        uuid.UUID
	Amount           float64
	Currency         string
	Status           PaymentStatus
	GatewayReference *string // payment intent (pi_) or charge (ch_) id

	RefundStatus   *RefundStatus
	RefundedAmount *float64
	RefundID       *string
	RefundError    *string
	RefundedAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsRefundable returns true when the payment was captured through the gateway
func (p *Payment) IsRefundable() bool {
	return p.Status == PaymentPaid && p.GatewayReference != nil && *p.GatewayReference != ""
}

// RefundOutcome is what the workflow records against a payment after a refund attempt
type RefundOutcome struct {
	Status    RefundStatus
	Amount    float64
	RefundID  *string
	Error     *string
	Timestamp time.Time
}

// PaymentStatusAfterRefund derives the payment status from a successful refund amount
func (p *Payment) PaymentStatusAfterRefund(refunded float64) PaymentStatus {
	if refunded >= p.Amount {
		return PaymentRefunded
	}
	return PaymentPartiallyRefunded
}
