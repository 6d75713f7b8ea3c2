package inventory

import (
	"context"
	"errors"
	"time"

	"staybook/internal/domain/listing"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

var (
	ErrDatesUnavailable = errors.New("inventory: dates unavailable")
	ErrAlreadyClaimed   = errors.New("inventory: day already claimed by a booking")
	ErrNotClaimed       = errors.New("inventory: day is not claimed")
)

// Day is one calendar date's availability and price record for one listing.
// A missing Day means the date is open at the listing's default rate; a
// stored Day is authoritative. BookingID set implies Available == false.
// The converse does not hold: a host can block a day without a booking.
type Day struct {
	ListingID listing.ListingID
	Date      time.Time // UTC midnight
	Available bool
	Price     money.Money
	BookingID string // empty when unclaimed
}

// NewDay creates an open day at the given price.
func NewDay(listingID listing.ListingID, date time.Time, price money.Money) *Day {
	return &Day{
		ListingID: listingID,
		Date:      daterange.Day(date),
		Available: true,
		Price:     price,
	}
}

// Claim marks the day as consumed by a booking.
func (d *Day) Claim(bookingID string) error {
	if d.BookingID != "" && d.BookingID != bookingID {
		return ErrAlreadyClaimed
	}
	if !d.Available && d.BookingID == "" {
		// host-blocked day
		return ErrDatesUnavailable
	}
	d.BookingID = bookingID
	d.Available = false
	return nil
}

// Release reopens a day previously claimed by a booking.
func (d *Day) Release() error {
	if d.BookingID == "" {
		return ErrNotClaimed
	}
	d.BookingID = ""
	d.Available = true
	return nil
}

// Block closes the day without attaching a booking.
func (d *Day) Block() error {
	if d.BookingID != "" {
		return ErrAlreadyClaimed
	}
	d.Available = false
	return nil
}

// Open makes a host-blocked day available again.
func (d *Day) Open() error {
	if d.BookingID != "" {
		return ErrAlreadyClaimed
	}
	d.Available = true
	return nil
}

type Repository interface {
	// DaysInRange returns the stored days for [checkIn, checkOut), ordered by
	// date. Dates with no stored day are absent from the result.
	DaysInRange(ctx context.Context, id listing.ListingID, r daterange.StayRange) ([]*Day, error)
	// DaysByBooking returns every day claimed by the given booking.
	DaysByBooking(ctx context.Context, bookingID string) ([]*Day, error)
	Save(ctx context.Context, day *Day) error
}
