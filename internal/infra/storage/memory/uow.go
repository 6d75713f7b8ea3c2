package memory

import (
	"context"
	"errors"

	appoutbox "staybook/internal/app/outbox"
	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
	domaininventory "staybook/internal/domain/inventory"
	domainlisting "staybook/internal/domain/listing"
	domainrequest "staybook/internal/domain/request"
	domainuser "staybook/internal/domain/user"
)

// ErrFactoryMisconfigured indicates a missing backing store.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// ErrConcurrentUpdate reports that another unit committed a conflicting write
// between this unit's Begin and its Commit. The first committer wins; the
// loser must retry on fresh state.
var ErrConcurrentUpdate = errors.New("memory: concurrent update")

// Factory wires the in-memory store into the unit-of-work port.
type Factory struct {
	Store *Store
}

// Begin snapshots the store. Writes stay private to the unit until Commit,
// which gives the same all-or-nothing behavior the session-backed unit has.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.Store == nil {
		return nil, ErrFactoryMisconfigured
	}
	s := f.Store
	s.mu.Lock()
	defer s.mu.Unlock()
	return &Unit{
		store:         s,
		readOnly:      opts.ReadOnly,
		listings:      copyMap(s.listings),
		users:         copyMap(s.users),
		days:          copyMap(s.days),
		requests:      copyMap(s.requests),
		bookings:      copyMap(s.bookings),
		dirtyListings: make(map[domainlisting.ListingID]baseValue[domainlisting.Listing]),
		dirtyUsers:    make(map[domainuser.ID]baseValue[domainuser.User]),
		dirtyDays:     make(map[string]baseValue[domaininventory.Day]),
		dirtyRequests: make(map[domainrequest.RequestID]baseValue[domainrequest.BookingRequest]),
		dirtyBookings: make(map[domainbooking.BookingID]baseValue[domainbooking.Booking]),
	}, nil
}

// baseValue remembers what a key looked like at Begin time, captured on the
// unit's first write to that key.
type baseValue[V any] struct {
	value  V
	exists bool
}

type stagedEvent struct {
	box    *Outbox
	record appoutbox.EventRecord
}

// Unit is a uow.UnitOfWork over a private snapshot of the store.
type Unit struct {
	store    *Store
	readOnly bool
	done     bool

	listings map[domainlisting.ListingID]domainlisting.Listing
	users    map[domainuser.ID]domainuser.User
	days     map[string]domaininventory.Day
	requests map[domainrequest.RequestID]domainrequest.BookingRequest
	bookings map[domainbooking.BookingID]domainbooking.Booking

	dirtyListings map[domainlisting.ListingID]baseValue[domainlisting.Listing]
	dirtyUsers    map[domainuser.ID]baseValue[domainuser.User]
	dirtyDays     map[string]baseValue[domaininventory.Day]
	dirtyRequests map[domainrequest.RequestID]baseValue[domainrequest.BookingRequest]
	dirtyBookings map[domainbooking.BookingID]baseValue[domainbooking.Booking]

	staged []stagedEvent
}

func (u *Unit) Listings() domainlisting.Repository { return &listingRepo{u} }

func (u *Unit) Users() domainuser.Repository { return &userRepo{u} }

func (u *Unit) Inventory() domaininventory.Repository { return &inventoryRepo{u} }

func (u *Unit) Requests() domainrequest.Repository { return &requestRepo{u} }

func (u *Unit) Bookings() domainbooking.Repository { return &bookingRepo{u} }

// Commit applies the unit's writes to the store. For every key this unit
// wrote, the live value must still match the Begin-time value; a mismatch
// means another unit committed in between and this one loses with
// ErrConcurrentUpdate, keeping the store exactly as the winner left it.
// Untouched keys are never written back, so disjoint units both survive.
func (u *Unit) Commit(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	if u.readOnly {
		return nil
	}
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := u.checkConflicts(); err != nil {
		return err
	}
	applyDirty(s.listings, u.listings, u.dirtyListings)
	applyDirty(s.users, u.users, u.dirtyUsers)
	applyDirty(s.days, u.days, u.dirtyDays)
	applyDirty(s.requests, u.requests, u.dirtyRequests)
	applyDirty(s.bookings, u.bookings, u.dirtyBookings)
	for _, ev := range u.staged {
		ev.box.append(ev.record)
	}
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	u.done = true
	u.staged = nil
	return nil
}

// stage keeps an outbox record with the unit so it surfaces only if the unit
// commits; a rollback drops it together with the data writes.
func (u *Unit) stage(box *Outbox, record appoutbox.EventRecord) {
	u.staged = append(u.staged, stagedEvent{box: box, record: record})
}

func (u *Unit) checkConflicts() error {
	s := u.store
	sameListing := func(a, b domainlisting.Listing) bool { return a == b }
	sameUser := func(a, b domainuser.User) bool { return a.ID == b.ID && a.CreatedAt.Equal(b.CreatedAt) }
	sameDay := func(a, b domaininventory.Day) bool { return a == b }
	sameRequest := func(a, b domainrequest.BookingRequest) bool { return a.Version == b.Version }
	sameBooking := func(a, b domainbooking.Booking) bool { return a.Version == b.Version }

	if err := checkDirty(s.listings, u.dirtyListings, sameListing); err != nil {
		return err
	}
	if err := checkDirty(s.users, u.dirtyUsers, sameUser); err != nil {
		return err
	}
	if err := checkDirty(s.days, u.dirtyDays, sameDay); err != nil {
		return err
	}
	if err := checkDirty(s.requests, u.dirtyRequests, sameRequest); err != nil {
		return err
	}
	return checkDirty(s.bookings, u.dirtyBookings, sameBooking)
}

// markDirty records the Begin-time value of a key the first time the unit
// writes it. Later writes to the same key keep the original base.
func markDirty[K comparable, V any](dirty map[K]baseValue[V], working map[K]V, key K) {
	if _, seen := dirty[key]; seen {
		return
	}
	v, ok := working[key]
	dirty[key] = baseValue[V]{value: v, exists: ok}
}

func checkDirty[K comparable, V any](live map[K]V, dirty map[K]baseValue[V], same func(a, b V) bool) error {
	for key, base := range dirty {
		cur, ok := live[key]
		if ok != base.exists {
			return ErrConcurrentUpdate
		}
		if ok && !same(cur, base.value) {
			return ErrConcurrentUpdate
		}
	}
	return nil
}

func applyDirty[K comparable, V any](live, working map[K]V, dirty map[K]baseValue[V]) {
	for key := range dirty {
		if v, ok := working[key]; ok {
			live[key] = v
		} else {
			delete(live, key)
		}
	}
}
