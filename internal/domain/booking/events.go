package booking

import (
	"time"

	"staybook/internal/domain/listing"
	"staybook/internal/domain/shared/daterange"
)

type BookingAltered struct {
	BookingID BookingID
	ListingID listing.ListingID
	Previous  daterange.StayRange
	Stay      daterange.StayRange
	At        time.Time
}

func (e BookingAltered) EventName() string     { return "booking.altered" }
func (e BookingAltered) AggregateID() string   { return string(e.BookingID) }
func (e BookingAltered) OccurredAt() time.Time { return e.At }
