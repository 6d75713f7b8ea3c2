package uow

import (
	"context"

	domainbooking "staybook/internal/domain/booking"
	domaininventory "staybook/internal/domain/inventory"
	domainlisting "staybook/internal/domain/listing"
	domainrequest "staybook/internal/domain/request"
	domainuser "staybook/internal/domain/user"
)

// UnitOfWork coordinates repositories inside one transaction boundary.
// The acceptance and rejection transitions rely on it to read and write the
// booking, the request and the full affected day-range as a single unit.
type UnitOfWork interface {
	Listings() domainlisting.Repository
	Users() domainuser.Repository
	Inventory() domaininventory.Repository
	Requests() domainrequest.Repository
	Bookings() domainbooking.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
