package memory

import (
	"context"
	"sort"

	domainbooking "staybook/internal/domain/booking"
	domaininventory "staybook/internal/domain/inventory"
	domainlisting "staybook/internal/domain/listing"
	domainrequest "staybook/internal/domain/request"
	"staybook/internal/domain/shared/daterange"
	domainuser "staybook/internal/domain/user"
)

type listingRepo struct{ u *Unit }

func (r *listingRepo) ByID(ctx context.Context, id domainlisting.ListingID) (*domainlisting.Listing, error) {
	l, ok := r.u.listings[id]
	if !ok {
		return nil, domainlisting.ErrNotFound
	}
	return &l, nil
}

func (r *listingRepo) Save(ctx context.Context, l *domainlisting.Listing) error {
	markDirty(r.u.dirtyListings, r.u.listings, l.ID)
	r.u.listings[l.ID] = *l
	return nil
}

type userRepo struct{ u *Unit }

func (r *userRepo) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	usr, ok := r.u.users[id]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	return &usr, nil
}

func (r *userRepo) Save(ctx context.Context, usr *domainuser.User) error {
	markDirty(r.u.dirtyUsers, r.u.users, usr.ID)
	r.u.users[usr.ID] = *usr
	return nil
}

type inventoryRepo struct{ u *Unit }

func (r *inventoryRepo) DaysInRange(ctx context.Context, id domainlisting.ListingID, span daterange.StayRange) ([]*domaininventory.Day, error) {
	out := make([]*domaininventory.Day, 0)
	for _, d := range r.u.days {
		if d.ListingID != id || !span.ContainsDay(d.Date) {
			continue
		}
		day := d
		out = append(out, &day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *inventoryRepo) DaysByBooking(ctx context.Context, bookingID string) ([]*domaininventory.Day, error) {
	out := make([]*domaininventory.Day, 0)
	for _, d := range r.u.days {
		if d.BookingID != bookingID {
			continue
		}
		day := d
		out = append(out, &day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *inventoryRepo) Save(ctx context.Context, day *domaininventory.Day) error {
	key := dayKey(day.ListingID, day.Date)
	markDirty(r.u.dirtyDays, r.u.days, key)
	r.u.days[key] = *day
	return nil
}

type requestRepo struct{ u *Unit }

func (r *requestRepo) ByID(ctx context.Context, id domainrequest.RequestID) (*domainrequest.BookingRequest, error) {
	req, ok := r.u.requests[id]
	if !ok {
		return nil, domainrequest.ErrNotFound
	}
	return &req, nil
}

func (r *requestRepo) Save(ctx context.Context, req *domainrequest.BookingRequest) error {
	stored := *req
	stored.ClearEvents()
	stored.Version++
	markDirty(r.u.dirtyRequests, r.u.requests, req.ID)
	r.u.requests[req.ID] = stored
	req.Version = stored.Version
	return nil
}

func (r *requestRepo) List(ctx context.Context, filter domainrequest.Filter) ([]*domainrequest.BookingRequest, error) {
	matches := make([]*domainrequest.BookingRequest, 0)
	for _, req := range r.u.requests {
		if filter.ListingID != "" && req.ListingID != filter.ListingID {
			continue
		}
		if filter.GuestID != "" && req.GuestID != filter.GuestID {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		item := req
		matches = append(matches, &item)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	if filter.Skip > 0 {
		if filter.Skip >= len(matches) {
			return []*domainrequest.BookingRequest{}, nil
		}
		matches = matches[filter.Skip:]
	}
	if filter.Take > 0 && filter.Take < len(matches) {
		matches = matches[:filter.Take]
	}
	return matches, nil
}

type bookingRepo struct{ u *Unit }

func (r *bookingRepo) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	b, ok := r.u.bookings[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	return &b, nil
}

func (r *bookingRepo) ByRequest(ctx context.Context, id domainrequest.RequestID) (*domainbooking.Booking, error) {
	for _, b := range r.u.bookings {
		if b.RequestID == id {
			bkg := b
			return &bkg, nil
		}
	}
	return nil, domainbooking.ErrNotFound
}

func (r *bookingRepo) Save(ctx context.Context, b *domainbooking.Booking) error {
	stored := *b
	stored.ClearEvents()
	stored.Version++
	markDirty(r.u.dirtyBookings, r.u.bookings, b.ID)
	r.u.bookings[b.ID] = stored
	b.Version = stored.Version
	return nil
}

func (r *bookingRepo) Delete(ctx context.Context, id domainbooking.BookingID) error {
	if _, ok := r.u.bookings[id]; !ok {
		return domainbooking.ErrNotFound
	}
	markDirty(r.u.dirtyBookings, r.u.bookings, id)
	delete(r.u.bookings, id)
	return nil
}

func (r *bookingRepo) ListByGuest(ctx context.Context, guestID domainuser.ID) ([]*domainbooking.Booking, error) {
	out := make([]*domainbooking.Booking, 0)
	for _, b := range r.u.bookings {
		if b.GuestID != guestID {
			continue
		}
		bkg := b
		out = append(out, &bkg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
