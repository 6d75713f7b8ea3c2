package dto

import (
	"time"

	domainrequest "staybook/internal/domain/request"
)

type BookingRequestView struct {
	ID           string    `json:"id"`
	ListingID    string    `json:"listing_id"`
	GuestID      string    `json:"guest_id"`
	CheckIn      time.Time `json:"check_in"`
	CheckOut     time.Time `json:"check_out"`
	Guests       int       `json:"guests"`
	Pets         bool      `json:"pets"`
	Message      string    `json:"message,omitempty"`
	TotalPrice   int64     `json:"total_price"`
	Currency     string    `json:"currency"`
	Status       string    `json:"status"`
	AlterationOf string    `json:"alteration_of,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func MapBookingRequest(r *domainrequest.BookingRequest) BookingRequestView {
	return BookingRequestView{
		ID:           string(r.ID),
		ListingID:    string(r.ListingID),
		GuestID:      string(r.GuestID),
		CheckIn:      r.Stay.CheckIn,
		CheckOut:     r.Stay.CheckOut,
		Guests:       r.Guests,
		Pets:         r.Pets,
		Message:      r.Message,
		TotalPrice:   r.TotalPrice.Amount,
		Currency:     r.TotalPrice.Currency,
		Status:       string(r.Status),
		AlterationOf: string(r.AlterationOf),
		CreatedAt:    r.CreatedAt,
	}
}

type BookingRequestCollection struct {
	Items []BookingRequestView `json:"items"`
}

func MapBookingRequests(items []*domainrequest.BookingRequest) BookingRequestCollection {
	out := BookingRequestCollection{Items: make([]BookingRequestView, 0, len(items))}
	for _, r := range items {
		out.Items = append(out.Items, MapBookingRequest(r))
	}
	return out
}
