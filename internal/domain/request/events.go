package request

import (
	"time"

	"staybook/internal/domain/listing"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
	"staybook/internal/domain/user"
)

type RequestCreated struct {
	RequestID  RequestID
	ListingID  listing.ListingID
	GuestID    user.ID
	Stay       daterange.StayRange
	Guests     int
	TotalPrice money.Money
	At         time.Time
}

func (e RequestCreated) EventName() string     { return "request.created" }
func (e RequestCreated) AggregateID() string   { return string(e.RequestID) }
func (e RequestCreated) OccurredAt() time.Time { return e.At }

type RequestAccepted struct {
	RequestID RequestID
	ListingID listing.ListingID
	At        time.Time
}

func (e RequestAccepted) EventName() string     { return "request.accepted" }
func (e RequestAccepted) AggregateID() string   { return string(e.RequestID) }
func (e RequestAccepted) OccurredAt() time.Time { return e.At }

type RequestRejected struct {
	RequestID RequestID
	ListingID listing.ListingID
	Reversal  bool
	At        time.Time
}

func (e RequestRejected) EventName() string     { return "request.rejected" }
func (e RequestRejected) AggregateID() string   { return string(e.RequestID) }
func (e RequestRejected) OccurredAt() time.Time { return e.At }
