package requests

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"staybook/internal/app/commands"
	"staybook/internal/app/handlers/support"
	"staybook/internal/app/outbox"
	"staybook/internal/app/policies"
	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
	domaininventory "staybook/internal/domain/inventory"
	domainlisting "staybook/internal/domain/listing"
	domainrequest "staybook/internal/domain/request"
	domainuser "staybook/internal/domain/user"
)

const changeStatusKey = "request.change_status"

type ChangeStatusCommand struct {
	RequestID string
	NewStatus string
	HostID    string
}

func (c ChangeStatusCommand) Key() string { return changeStatusKey }

type ChangeStatusResult struct {
	Status string `json:"status"`
}

// ChangeStatusHandler drives the request lifecycle. Acceptance claims every
// day of the stay and creates the booking inside one transaction; rejection
// of an accepted request releases the claimed days and deletes the booking.
// Either everything inside the boundary commits or none of it does.
type ChangeStatusHandler struct {
	UoWFactory uow.UoWFactory
	Notifier   policies.Notifier
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
	// NewBookingID overrides booking id generation in tests.
	NewBookingID func() string
}

func (h *ChangeStatusHandler) Handle(ctx context.Context, cmd ChangeStatusCommand) (*ChangeStatusResult, error) {
	target := domainrequest.Status(cmd.NewStatus)
	switch target {
	case domainrequest.StatusAccepted, domainrequest.StatusRejected:
	default:
		return nil, domainrequest.ErrInvalidTransition
	}

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

	req, err := unit.Requests().ByID(execCtx, domainrequest.RequestID(cmd.RequestID))
	if err != nil {
		return nil, err
	}
	lst, err := unit.Listings().ByID(execCtx, req.ListingID)
	if err != nil {
		return nil, err
	}
	// Ownership failures are indistinguishable from missing requests.
	if string(lst.Host) != cmd.HostID {
		return nil, domainrequest.ErrNotFound
	}

	now := time.Now().UTC()
	switch target {
	case domainrequest.StatusAccepted:
		err = h.accept(execCtx, unit, req, lst, now)
	case domainrequest.StatusRejected:
		err = h.reject(execCtx, unit, req, now)
	}
	if err != nil {
		return nil, err
	}
	if err := unit.Requests().Save(execCtx, req); err != nil {
		return nil, err
	}

	pending := req.PendingEvents()
	req.ClearEvents()
	if err := outbox.RecordDomainEvents(execCtx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}

	guestEmail, guestName := h.guestContact(execCtx, unit, req.GuestID)

	if managed {
		if err := unit.Commit(execCtx); err != nil {
			return nil, err
		}
		committed = true
	}

	h.notifyGuest(ctx, guestEmail, guestName, lst, req)

	return &ChangeStatusResult{Status: string(req.Status)}, nil
}

// accept claims [checkIn, checkOut) for a new booking. Availability is
// re-checked here against current calendar state: the request-time
// validation may have gone stale under a concurrent acceptance.
func (h *ChangeStatusHandler) accept(ctx context.Context, unit uow.UnitOfWork, req *domainrequest.BookingRequest, lst *domainlisting.Listing, now time.Time) error {
	if req.Status != domainrequest.StatusPending {
		return domainrequest.ErrInvalidTransition
	}

	bkg, err := domainbooking.New(domainbooking.CreateParams{
		ID:         domainbooking.BookingID(h.bookingID()),
		ListingID:  lst.ID,
		GuestID:    req.GuestID,
		Stay:       req.Stay,
		TotalPrice: req.TotalPrice,
		RequestID:  req.ID,
		CreatedAt:  now,
	})
	if err != nil {
		return err
	}
	// The booking total follows the listing's current nightly rate, not the
	// per-day quote stored on the request.
	bkg.Reprice(lst.NightlyRate)
	if err := unit.Bookings().Save(ctx, bkg); err != nil {
		return err
	}

	stored, err := unit.Inventory().DaysInRange(ctx, lst.ID, req.Stay)
	if err != nil {
		return err
	}
	byDate := make(map[time.Time]*domaininventory.Day, len(stored))
	for _, d := range stored {
		byDate[d.Date] = d
	}
	for _, date := range req.Stay.Days() {
		day, ok := byDate[date]
		if !ok {
			day = domaininventory.NewDay(lst.ID, date, lst.NightlyRate)
		}
		if !day.Available {
			return domaininventory.ErrDatesUnavailable
		}
		if err := day.Claim(string(bkg.ID)); err != nil {
			return err
		}
		if err := unit.Inventory().Save(ctx, day); err != nil {
			return err
		}
	}

	return req.Accept(now)
}

// reject declines a pending request, or reverses an accepted one by
// releasing every claimed day and deleting the booking. After reversal the
// calendar is identical to its pre-acceptance state.
func (h *ChangeStatusHandler) reject(ctx context.Context, unit uow.UnitOfWork, req *domainrequest.BookingRequest, now time.Time) error {
	if req.Status == domainrequest.StatusAccepted {
		bkg, err := unit.Bookings().ByRequest(ctx, req.ID)
		if err != nil {
			return err
		}
		days, err := unit.Inventory().DaysByBooking(ctx, string(bkg.ID))
		if err != nil {
			return err
		}
		for _, day := range days {
			if err := day.Release(); err != nil {
				return err
			}
			if err := unit.Inventory().Save(ctx, day); err != nil {
				return err
			}
		}
		if err := unit.Bookings().Delete(ctx, bkg.ID); err != nil {
			return err
		}
	}
	return req.Reject(now)
}

func (h *ChangeStatusHandler) guestContact(ctx context.Context, unit uow.UnitOfWork, guestID domainuser.ID) (string, string) {
	guest, err := unit.Users().ByID(ctx, guestID)
	if err != nil {
		return "", ""
	}
	email, _ := guest.PrimaryEmail()
	return email, guest.FullName()
}

func (h *ChangeStatusHandler) notifyGuest(ctx context.Context, guestEmail, guestName string, lst *domainlisting.Listing, req *domainrequest.BookingRequest) {
	if h.Notifier == nil || guestEmail == "" {
		return
	}
	note := policies.DecisionNote{
		RequestID:    string(req.ID),
		GuestEmail:   guestEmail,
		GuestName:    guestName,
		ListingTitle: lst.Title,
		Status:       string(req.Status),
		CheckIn:      req.Stay.CheckIn,
		CheckOut:     req.Stay.CheckOut,
	}
	if err := h.Notifier.BookingDecided(ctx, note); err != nil {
		h.log().Warn("decision notification failed", "request_id", req.ID, "error", err)
	}
}

func (h *ChangeStatusHandler) bookingID() string {
	if h.NewBookingID != nil {
		return h.NewBookingID()
	}
	return uuid.NewString()
}

func (h *ChangeStatusHandler) log() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

var _ commands.Handler[ChangeStatusCommand, *ChangeStatusResult] = (*ChangeStatusHandler)(nil)
