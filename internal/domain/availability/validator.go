package availability

import (
	"context"
	"time"

	"staybook/internal/domain/inventory"
	"staybook/internal/domain/listing"
	"staybook/internal/domain/shared/daterange"
)

// Validator checks a requested stay against the inventory calendar. Dates
// with no stored day are treated as available (open calendar). Read-only.
type Validator struct {
	Inventory inventory.Repository
}

// ValidateStay returns the normalized day-granular range or one of
// daterange.ErrInvalidRange, daterange.ErrBelowMinimumStay,
// inventory.ErrDatesUnavailable.
func (v Validator) ValidateStay(ctx context.Context, id listing.ListingID, checkIn, checkOut time.Time) (daterange.StayRange, error) {
	r, err := daterange.New(checkIn, checkOut)
	if err != nil {
		return daterange.StayRange{}, err
	}
	days, err := v.Inventory.DaysInRange(ctx, id, r)
	if err != nil {
		return daterange.StayRange{}, err
	}
	for _, day := range days {
		if !day.Available {
			return daterange.StayRange{}, inventory.ErrDatesUnavailable
		}
	}
	return r, nil
}
