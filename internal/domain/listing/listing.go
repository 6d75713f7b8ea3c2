package listing

import (
	"context"
	"errors"
	"time"

	"staybook/internal/domain/shared/money"
)

var ErrNotFound = errors.New("listing: not found")

type ListingID string
type HostID string

// Listing is owned by the listings service; the booking engine reads it to
// resolve the host, the default nightly rate and the published flag.
type Listing struct {
	ID           ListingID
	Host         HostID
	Title        string
	NightlyRate  money.Money
	CheckInTime  string // local wall-clock, e.g. "15:00"
	CheckOutTime string
	Timezone     string
	Published    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ListingID) (*Listing, error)
	Save(ctx context.Context, listing *Listing) error
}
