package domain

// Business validation constants
const (
	MaxCancellationReasonLength = 500
	MaxServiceTypeLength        = 64
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// DefaultTimezone is the zone service instants are expressed in when none is configured
const DefaultTimezone = "Europe/Paris"

// DefaultCurrency is the single currency bookings are priced in
const DefaultCurrency = "eur"

// AllStatuses every booking status, in lifecycle order
var AllStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusAssigned,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}

// Roles resolved from the access token
const (
	RoleClient   = "client"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)
