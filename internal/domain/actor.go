package domain

import "github.com/google/uuid"

// Actor is the authenticated user performing a request
type Actor struct {
	UserID uuid.UUID
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanView returns true if the actor is a party to the booking or an admin
func (a Actor) CanView(b *Booking) bool {
	return a.IsAdmin() || b.ClientID == a.UserID || b.IsProvider(a.UserID)
}

// CanActAs returns true if the actor may cancel the booking on behalf of party.
// A client must own the booking, a provider must be the assigned one, an admin may act as either.
func (a Actor) CanActAs(b *Booking, party CancelledBy) bool {
	if a.IsAdmin() {
		return true
	}
	switch party {
	case CancelledByClient:
		return b.ClientID == a.UserID
	case CancelledByProvider:
		return b.IsProvider(a.UserID)
	default:
		return false
	}
}
