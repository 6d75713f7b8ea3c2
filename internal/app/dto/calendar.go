package dto

import (
	"time"

	domaininventory "staybook/internal/domain/inventory"
)

type CalendarDayView struct {
	Date      time.Time `json:"date"`
	Available bool      `json:"available"`
	Price     int64     `json:"price"`
	Currency  string    `json:"currency"`
	BookingID string    `json:"booking_id,omitempty"`
}

type CalendarView struct {
	ListingID string            `json:"listing_id"`
	Days      []CalendarDayView `json:"days"`
}

func MapCalendar(listingID string, days []*domaininventory.Day) CalendarView {
	view := CalendarView{ListingID: listingID, Days: make([]CalendarDayView, 0, len(days))}
	for _, d := range days {
		view.Days = append(view.Days, CalendarDayView{
			Date:      d.Date,
			Available: d.Available,
			Price:     d.Price.Amount,
			Currency:  d.Price.Currency,
			BookingID: d.BookingID,
		})
	}
	return view
}
