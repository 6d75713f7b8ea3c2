package bookings

import (
	"context"
	"log/slog"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/support"
	"staybook/internal/app/outbox"
	"staybook/internal/app/policies"
	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
)

const updateBookingKey = "booking.update"

type UpdateBookingCommand struct {
	BookingID string
	CheckIn   time.Time
	CheckOut  time.Time
}

func (c UpdateBookingCommand) Key() string { return updateBookingKey }

// UpdateBookingHandler moves a booking's dates in place. The inventory
// calendar is intentionally left untouched: claimed days stay claimed under
// the original range and the new range is not re-validated.
type UpdateBookingHandler struct {
	UoWFactory uow.UoWFactory
	Notifier   policies.Notifier
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *UpdateBookingHandler) Handle(ctx context.Context, cmd UpdateBookingCommand) (*dto.BookingView, error) {
	unit, execCtx, managed, err := support.BeginUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	committed := false
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(execCtx)
			}
		}()
	}

	bkg, err := unit.Bookings().ByID(execCtx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := bkg.Reschedule(cmd.CheckIn, cmd.CheckOut, now); err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(execCtx, bkg); err != nil {
		return nil, err
	}

	pending := bkg.PendingEvents()
	bkg.ClearEvents()
	if err := outbox.RecordDomainEvents(execCtx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}

	guestEmail := ""
	if guest, err := unit.Users().ByID(execCtx, bkg.GuestID); err == nil {
		guestEmail, _ = guest.PrimaryEmail()
	}

	if managed {
		if err := unit.Commit(execCtx); err != nil {
			return nil, err
		}
		committed = true
	}

	h.notify(ctx, guestEmail, bkg)

	view := dto.MapBooking(bkg)
	return &view, nil
}

func (h *UpdateBookingHandler) notify(ctx context.Context, guestEmail string, bkg *domainbooking.Booking) {
	if h.Notifier == nil || guestEmail == "" {
		return
	}
	note := policies.AlterationNote{
		BookingID:  string(bkg.ID),
		GuestEmail: guestEmail,
		CheckIn:    bkg.Stay.CheckIn,
		CheckOut:   bkg.Stay.CheckOut,
	}
	if err := h.Notifier.BookingAltered(ctx, note); err != nil {
		h.log().Warn("alteration notification failed", "booking_id", bkg.ID, "error", err)
	}
}

func (h *UpdateBookingHandler) log() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

var _ commands.Handler[UpdateBookingCommand, *dto.BookingView] = (*UpdateBookingHandler)(nil)
