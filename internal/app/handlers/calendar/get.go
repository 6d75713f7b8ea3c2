package calendar

import (
	"context"
	"time"

	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/support"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	domainlisting "staybook/internal/domain/listing"
	"staybook/internal/domain/shared/daterange"
)

const getCalendarKey = "calendar.get"

type GetCalendarQuery struct {
	ListingID string
	From      time.Time
	To        time.Time
}

func (q GetCalendarQuery) Key() string { return getCalendarKey }

// GetCalendarHandler returns the stored days in a span. Dates without a
// stored day are omitted; the caller treats them as open.
type GetCalendarHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetCalendarHandler) Handle(ctx context.Context, q GetCalendarQuery) (dto.CalendarView, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.CalendarView{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	lst, err := unit.Listings().ByID(execCtx, domainlisting.ListingID(q.ListingID))
	if err != nil {
		return dto.CalendarView{}, err
	}
	span, err := daterange.New(q.From, q.To)
	if err != nil {
		return dto.CalendarView{}, err
	}
	days, err := unit.Inventory().DaysInRange(execCtx, lst.ID, span)
	if err != nil {
		return dto.CalendarView{}, err
	}
	return dto.MapCalendar(string(lst.ID), days), nil
}

var _ queries.Handler[GetCalendarQuery, dto.CalendarView] = (*GetCalendarHandler)(nil)
