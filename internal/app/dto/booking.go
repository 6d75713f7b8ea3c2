package dto

import (
	"time"

	domainbooking "staybook/internal/domain/booking"
)

type BookingView struct {
	ID         string    `json:"id"`
	ListingID  string    `json:"listing_id"`
	GuestID    string    `json:"guest_id"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	TotalPrice int64     `json:"total_price"`
	Currency   string    `json:"currency"`
	Status     string    `json:"status"`
	RequestID  string    `json:"booking_request_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func MapBooking(b *domainbooking.Booking) BookingView {
	return BookingView{
		ID:         string(b.ID),
		ListingID:  string(b.ListingID),
		GuestID:    string(b.GuestID),
		CheckIn:    b.Stay.CheckIn,
		CheckOut:   b.Stay.CheckOut,
		TotalPrice: b.TotalPrice.Amount,
		Currency:   b.TotalPrice.Currency,
		Status:     string(b.Status),
		RequestID:  string(b.RequestID),
		CreatedAt:  b.CreatedAt,
	}
}

type BookingCollection struct {
	Items []BookingView `json:"items"`
}

func MapBookings(items []*domainbooking.Booking) BookingCollection {
	out := BookingCollection{Items: make([]BookingView, 0, len(items))}
	for _, b := range items {
		out.Items = append(out.Items, MapBooking(b))
	}
	return out
}
