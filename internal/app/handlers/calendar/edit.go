package calendar

import (
	"context"
	"log/slog"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/middleware"
	"staybook/internal/app/uow"
	domaininventory "staybook/internal/domain/inventory"
	domainlisting "staybook/internal/domain/listing"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

const editCalendarKey = "calendar.edit"

// EditCalendarCommand blocks, reopens or reprices a span of days on a
// listing's calendar. Rows are created lazily for dates the host never
// touched before.
type EditCalendarCommand struct {
	HostID    string
	ListingID string
	From      time.Time
	To        time.Time
	Available *bool
	Price     *int64
}

func (c EditCalendarCommand) Key() string { return editCalendarKey }

func (c EditCalendarCommand) Transactional() bool { return true }

type EditCalendarResult struct {
	DaysTouched int `json:"days_touched"`
}

// EditCalendarHandler runs inside the transaction middleware and reads the
// unit of work from context.
type EditCalendarHandler struct {
	Logger *slog.Logger
}

func (h *EditCalendarHandler) Handle(ctx context.Context, cmd EditCalendarCommand) (*EditCalendarResult, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	lst, err := unit.Listings().ByID(ctx, domainlisting.ListingID(cmd.ListingID))
	if err != nil {
		return nil, err
	}
	if string(lst.Host) != cmd.HostID {
		return nil, domainlisting.ErrNotFound
	}

	span, err := daterange.New(cmd.From, cmd.To)
	if err != nil {
		return nil, err
	}

	stored, err := unit.Inventory().DaysInRange(ctx, lst.ID, span)
	if err != nil {
		return nil, err
	}
	byDate := make(map[time.Time]*domaininventory.Day, len(stored))
	for _, d := range stored {
		byDate[d.Date] = d
	}

	touched := 0
	for _, date := range span.Days() {
		day, ok := byDate[date]
		if !ok {
			day = domaininventory.NewDay(lst.ID, date, lst.NightlyRate)
		}
		if cmd.Price != nil {
			day.Price = money.Money{Amount: *cmd.Price, Currency: lst.NightlyRate.Currency}
		}
		if cmd.Available != nil {
			if *cmd.Available {
				if err := day.Open(); err != nil {
					return nil, err
				}
			} else {
				if err := day.Block(); err != nil {
					return nil, err
				}
			}
		}
		if err := unit.Inventory().Save(ctx, day); err != nil {
			return nil, err
		}
		touched++
	}

	if h.Logger != nil {
		h.Logger.Info("calendar edited", "listing_id", lst.ID, "days", touched)
	}
	return &EditCalendarResult{DaysTouched: touched}, nil
}

var _ commands.Handler[EditCalendarCommand, *EditCalendarResult] = (*EditCalendarHandler)(nil)
var _ middleware.TransactionalCommand = EditCalendarCommand{}
