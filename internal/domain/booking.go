package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/bikawo/bikawo-booking-service/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusAssigned   BookingStatus = "assigned"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

// CancelledBy is the party that initiated a cancellation
type CancelledBy string

const (
	CancelledByClient   CancelledBy = "client"
	CancelledByProvider CancelledBy = "provider"
)

// IsValid reports whether the actor is one of the known parties
func (c CancelledBy) IsValid() bool {
	return c == CancelledByClient || c == CancelledByProvider
}

// Booking represents a home-assistance service booking
type Booking struct {
	ID          uuid.UUID
	ClientID    uuid.UUID
	ProviderID  *uuid.UUID // nil until a provider is assigned
	ServiceType string     // catalog category, scopes the refund policy
	ServiceName string
	BookingDate time.Time        // calendar date of the service
	StartTime   types.TimeString // scheduled start, HH:MM
	TotalPrice  float64
	Status      BookingStatus

	CancelledBy        *CancelledBy
	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// transitions lists the allowed forward moves of the booking state machine.
// cancelled is reachable from every non-terminal state but only through
// the cancellation workflow, so it is not listed here.
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:    {StatusConfirmed},
	StatusConfirmed:  {StatusAssigned, StatusInProgress},
	StatusAssigned:   {StatusInProgress},
	StatusInProgress: {StatusCompleted},
}

// IsTerminal returns true for completed and cancelled bookings
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsValid reports whether s is a known status
func (s BookingStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// CanTransitionTo returns true if the state machine allows moving from s to next
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// CanBeCancelled returns true if the booking has not reached a terminal state
func (b *Booking) CanBeCancelled() bool {
	return !b.Status.IsTerminal()
}

// IsProvider returns true if userID is the assigned provider
func (b *Booking) IsProvider(userID uuid.UUID) bool {
	return b.ProviderID != nil && *b.ProviderID == userID
}

// CounterParty returns the user to notify when actor cancels.
// The second value is false when the counter-party is a provider not yet assigned.
func (b *Booking) CounterParty(actor CancelledBy) (uuid.UUID, CancelledBy, bool) {
	if actor == CancelledByProvider {
		return b.ClientID, CancelledByClient, true
	}
	if b.ProviderID == nil {
		return uuid.Nil, CancelledByProvider, false
	}
	return *b.ProviderID, CancelledByProvider, true
}

// BookingsFilter filters booking lists by owner and status
type BookingsFilter struct {
	ClientID   *uuid.UUID
	ProviderID *uuid.UUID
	Status     *BookingStatus
	StartDate  *time.Time
	EndDate    *time.Time
}
