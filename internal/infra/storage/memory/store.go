package memory

import (
	"sync"
	"time"

	domainbooking "staybook/internal/domain/booking"
	domaininventory "staybook/internal/domain/inventory"
	domainlisting "staybook/internal/domain/listing"
	domainrequest "staybook/internal/domain/request"
	domainuser "staybook/internal/domain/user"
)

// Store holds all engine state for the in-memory mode. Units of work copy
// the maps at begin, track which keys they write, and merge those keys back
// at commit. A failed acceptance never leaves half-claimed days behind, and
// a commit racing an earlier one loses with ErrConcurrentUpdate.
type Store struct {
	mu       sync.Mutex
	listings map[domainlisting.ListingID]domainlisting.Listing
	users    map[domainuser.ID]domainuser.User
	days     map[string]domaininventory.Day
	requests map[domainrequest.RequestID]domainrequest.BookingRequest
	bookings map[domainbooking.BookingID]domainbooking.Booking
}

func NewStore() *Store {
	return &Store{
		listings: make(map[domainlisting.ListingID]domainlisting.Listing),
		users:    make(map[domainuser.ID]domainuser.User),
		days:     make(map[string]domaininventory.Day),
		requests: make(map[domainrequest.RequestID]domainrequest.BookingRequest),
		bookings: make(map[domainbooking.BookingID]domainbooking.Booking),
	}
}

func dayKey(id domainlisting.ListingID, date time.Time) string {
	return string(id) + "|" + date.UTC().Format("2006-01-02")
}

// PutListing seeds a listing; used by fixtures and tests.
func (s *Store) PutListing(l *domainlisting.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings[l.ID] = *l
}

// PutUser seeds a user.
func (s *Store) PutUser(u *domainuser.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = *u
}

// PutDay seeds an inventory day.
func (s *Store) PutDay(d *domaininventory.Day) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.days[dayKey(d.ListingID, d.Date)] = *d
}

// PutRequest seeds a booking request.
func (s *Store) PutRequest(r *domainrequest.BookingRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *r
	stored.ClearEvents()
	s.requests[r.ID] = stored
}

// PutBooking seeds a booking.
func (s *Store) PutBooking(b *domainbooking.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *b
	stored.ClearEvents()
	s.bookings[b.ID] = stored
}

// Day returns a snapshot of one stored inventory day.
func (s *Store) Day(id domainlisting.ListingID, date time.Time) (domaininventory.Day, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.days[dayKey(id, date)]
	return d, ok
}

// DayCount reports how many inventory rows exist for a listing.
func (s *Store) DayCount(id domainlisting.ListingID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, d := range s.days {
		if d.ListingID == id {
			n++
		}
	}
	return n
}

// Request returns a snapshot of one stored request.
func (s *Store) Request(id domainrequest.RequestID) (domainrequest.BookingRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	return r, ok
}

// Booking returns a snapshot of one stored booking.
func (s *Store) Booking(id domainbooking.BookingID) (domainbooking.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	return b, ok
}

// BookingCount reports how many bookings exist.
func (s *Store) BookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

func copyMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
