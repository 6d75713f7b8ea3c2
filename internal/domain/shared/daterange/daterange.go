package daterange

import (
	"errors"
	"time"
)

var (
	ErrInvalidRange     = errors.New("daterange: checkout must be after checkin")
	ErrBelowMinimumStay = errors.New("daterange: stay must span at least one calendar day")
)

// StayRange is a half-open interval [checkIn, checkOut) indexed by calendar
// day. Time-of-day on the inputs is ignored for availability purposes:
// inventory is keyed by date, not timestamp.
type StayRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// New validates the raw timestamps and truncates them to UTC midnight.
// The order check runs on the raw values so that a same-day interval with
// checkOut after checkIn fails with ErrBelowMinimumStay, not ErrInvalidRange.
func New(checkIn, checkOut time.Time) (StayRange, error) {
	if checkIn.IsZero() || checkOut.IsZero() {
		return StayRange{}, ErrInvalidRange
	}
	if !checkOut.After(checkIn) {
		return StayRange{}, ErrInvalidRange
	}
	sr := StayRange{CheckIn: Day(checkIn), CheckOut: Day(checkOut)}
	if !sr.CheckOut.After(sr.CheckIn) {
		return StayRange{}, ErrBelowMinimumStay
	}
	return sr, nil
}

// Day truncates a timestamp to its UTC calendar day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (sr StayRange) Nights() int {
	return int(sr.CheckOut.Sub(sr.CheckIn).Hours() / 24)
}

// Days returns every booked night in order, checkOut excluded.
func (sr StayRange) Days() []time.Time {
	days := make([]time.Time, 0, sr.Nights())
	for d := sr.CheckIn; d.Before(sr.CheckOut); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func (sr StayRange) ContainsDay(t time.Time) bool {
	d := Day(t)
	return !d.Before(sr.CheckIn) && d.Before(sr.CheckOut)
}

func (sr StayRange) Overlaps(other StayRange) bool {
	return sr.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(sr.CheckOut)
}

func (sr StayRange) Equal(other StayRange) bool {
	return sr.CheckIn.Equal(other.CheckIn) && sr.CheckOut.Equal(other.CheckOut)
}
