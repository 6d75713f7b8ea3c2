package request

import (
	"context"
	"errors"
	"time"

	"staybook/internal/domain/listing"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/events"
	"staybook/internal/domain/shared/money"
	"staybook/internal/domain/user"
)

var (
	ErrNotFound          = errors.New("request: not found")
	ErrInvalidGuests     = errors.New("request: guests count must be positive")
	ErrInvalidTransition = errors.New("request: invalid status transition")
)

type RequestID string

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
)

// ValidStatus reports whether s is one of the lifecycle states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// BookingRequest is a guest's ask for a date range on a listing. Its status
// is mutated only through Accept and Reject; a rejected request is terminal.
// The request never owns inventory itself: claims happen through the
// acceptance transaction.
type BookingRequest struct {
	ID           RequestID
	ListingID    listing.ListingID
	GuestID      user.ID
	Stay         daterange.StayRange
	Guests       int
	Pets         bool
	Message      string
	TotalPrice   money.Money
	Status       Status
	AlterationOf RequestID // optional non-owning back-reference
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Version      int64
	events.EventRecorder
}

type CreateParams struct {
	ID           RequestID
	ListingID    listing.ListingID
	GuestID      user.ID
	Stay         daterange.StayRange
	Guests       int
	Pets         bool
	Message      string
	TotalPrice   money.Money
	AlterationOf RequestID
	CreatedAt    time.Time
}

func New(params CreateParams) (*BookingRequest, error) {
	if params.Guests <= 0 {
		return nil, ErrInvalidGuests
	}
	if params.GuestID == "" {
		return nil, errors.New("request: guest id required")
	}
	now := params.CreatedAt.UTC()
	r := &BookingRequest{
		ID:           params.ID,
		ListingID:    params.ListingID,
		GuestID:      params.GuestID,
		Stay:         params.Stay,
		Guests:       params.Guests,
		Pets:         params.Pets,
		Message:      params.Message,
		TotalPrice:   params.TotalPrice,
		Status:       StatusPending,
		AlterationOf: params.AlterationOf,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.Record(RequestCreated{
		RequestID:  r.ID,
		ListingID:  r.ListingID,
		GuestID:    r.GuestID,
		Stay:       r.Stay,
		Guests:     r.Guests,
		TotalPrice: r.TotalPrice,
		At:         now,
	})
	return r, nil
}

// Accept moves PENDING to ACCEPTED.
func (r *BookingRequest) Accept(now time.Time) error {
	if r.Status != StatusPending {
		return ErrInvalidTransition
	}
	r.Status = StatusAccepted
	r.UpdatedAt = now.UTC()
	r.Record(RequestAccepted{RequestID: r.ID, ListingID: r.ListingID, At: r.UpdatedAt})
	return nil
}

// Reject declines a pending request or reverses an accepted one.
func (r *BookingRequest) Reject(now time.Time) error {
	if r.Status != StatusPending && r.Status != StatusAccepted {
		return ErrInvalidTransition
	}
	reversal := r.Status == StatusAccepted
	r.Status = StatusRejected
	r.UpdatedAt = now.UTC()
	r.Record(RequestRejected{RequestID: r.ID, ListingID: r.ListingID, Reversal: reversal, At: r.UpdatedAt})
	return nil
}

// Filter narrows a request listing. Take caps the page size; Skip offsets it.
type Filter struct {
	ListingID listing.ListingID
	GuestID   user.ID
	Status    Status
	Take      int
	Skip      int
}

type Repository interface {
	ByID(ctx context.Context, id RequestID) (*BookingRequest, error)
	Save(ctx context.Context, r *BookingRequest) error
	List(ctx context.Context, filter Filter) ([]*BookingRequest, error)
}
