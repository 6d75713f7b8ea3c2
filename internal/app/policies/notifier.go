package policies

import (
	"context"
	"time"

	"staybook/internal/domain/shared/money"
)

// RequestCreatedNote informs the host that a guest asked for a stay.
type RequestCreatedNote struct {
	RequestID    string
	HostEmail    string
	GuestName    string
	ListingTitle string
	CheckIn      time.Time
	CheckOut     time.Time
	Guests       int
	TotalPrice   money.Money
}

// DecisionNote informs the guest that the host accepted or rejected.
type DecisionNote struct {
	RequestID    string
	GuestEmail   string
	GuestName    string
	ListingTitle string
	Status       string
	CheckIn      time.Time
	CheckOut     time.Time
}

// AlterationNote informs the guest that a booking's dates moved.
type AlterationNote struct {
	BookingID  string
	GuestEmail string
	CheckIn    time.Time
	CheckOut   time.Time
}

// Notifier delivers emails to hosts and guests. Calls happen after the
// transactional core commits and are fire-and-forget: a failure is logged by
// the caller, never surfaced as an operation failure.
type Notifier interface {
	BookingRequestCreated(ctx context.Context, note RequestCreatedNote) error
	BookingDecided(ctx context.Context, note DecisionNote) error
	BookingAltered(ctx context.Context, note AlterationNote) error
}
