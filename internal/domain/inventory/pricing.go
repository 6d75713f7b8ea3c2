package inventory

import (
	"context"

	"staybook/internal/domain/listing"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

// Quoter prices a stay by summing stored per-day prices. Dates without a
// stored day contribute nothing to the total; the acceptance path prices
// those days at the listing's nightly rate instead. Pure read, no side
// effects.
type Quoter struct {
	Inventory Repository
}

func (q Quoter) Quote(ctx context.Context, id listing.ListingID, r daterange.StayRange, currency string) (money.Money, error) {
	days, err := q.Inventory.DaysInRange(ctx, id, r)
	if err != nil {
		return money.Money{}, err
	}
	total := money.Zero(currency)
	for _, day := range days {
		sum, err := total.Add(day.Price)
		if err != nil {
			return money.Money{}, err
		}
		total = sum
	}
	return total, nil
}
