package booking

import (
	"context"
	"errors"
	"time"

	"staybook/internal/domain/listing"
	"staybook/internal/domain/request"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/events"
	"staybook/internal/domain/shared/money"
	"staybook/internal/domain/user"
)

var (
	ErrNotFound         = errors.New("booking: not found")
	ErrInvalidDateRange = errors.New("booking: Check-out date must be after check-in date")
)

type BookingID string

type Status string

const StatusActive Status = "ACTIVE"

// Booking is created only when a host accepts a request and deleted only
// when that acceptance is reversed. While it exists, every date in its stay
// is claimed in the inventory calendar; that cross-entity invariant is
// maintained by the acceptance and rejection transactions.
type Booking struct {
	ID         BookingID
	ListingID  listing.ListingID
	GuestID    user.ID
	Stay       daterange.StayRange
	TotalPrice money.Money
	Status     Status
	RequestID  request.RequestID
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int64
	events.EventRecorder
}

type CreateParams struct {
	ID         BookingID
	ListingID  listing.ListingID
	GuestID    user.ID
	Stay       daterange.StayRange
	TotalPrice money.Money
	RequestID  request.RequestID
	CreatedAt  time.Time
}

func New(params CreateParams) (*Booking, error) {
	if params.GuestID == "" {
		return nil, errors.New("booking: guest id required")
	}
	if params.RequestID == "" {
		return nil, errors.New("booking: request back-reference required")
	}
	now := params.CreatedAt.UTC()
	return &Booking{
		ID:         params.ID,
		ListingID:  params.ListingID,
		GuestID:    params.GuestID,
		Stay:       params.Stay,
		TotalPrice: params.TotalPrice,
		Status:     StatusActive,
		RequestID:  params.RequestID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Reprice reconciles the total against the listing's current nightly rate.
// This intentionally ignores per-day price overrides summed at request time.
func (b *Booking) Reprice(nightly money.Money) {
	b.TotalPrice = nightly.Multiply(int64(b.Stay.Nights()))
}

// Reschedule moves the stay in place. Only the date order is checked; the
// inventory calendar is not re-validated or re-claimed here.
func (b *Booking) Reschedule(checkIn, checkOut time.Time, now time.Time) error {
	if checkIn.IsZero() || checkOut.IsZero() || !checkOut.After(checkIn) {
		return ErrInvalidDateRange
	}
	old := b.Stay
	b.Stay = daterange.StayRange{CheckIn: daterange.Day(checkIn), CheckOut: daterange.Day(checkOut)}
	b.UpdatedAt = now.UTC()
	b.Record(BookingAltered{BookingID: b.ID, ListingID: b.ListingID, Previous: old, Stay: b.Stay, At: b.UpdatedAt})
	return nil
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	ByRequest(ctx context.Context, id request.RequestID) (*Booking, error)
	Save(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id BookingID) error
	ListByGuest(ctx context.Context, guestID user.ID) ([]*Booking, error)
}
