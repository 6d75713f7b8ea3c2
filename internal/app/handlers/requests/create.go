package requests

import (
	"context"
	"log/slog"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/support"
	"staybook/internal/app/middleware"
	"staybook/internal/app/outbox"
	"staybook/internal/app/policies"
	"staybook/internal/app/uow"
	domainavailability "staybook/internal/domain/availability"
	domaininventory "staybook/internal/domain/inventory"
	domainlisting "staybook/internal/domain/listing"
	domainrequest "staybook/internal/domain/request"
	domainuser "staybook/internal/domain/user"
)

const createRequestKey = "request.create"

type CreateRequestCommand struct {
	CommandID       string
	ListingID       string
	GuestID         string
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	Pets            bool
	Message         string
	AlterationOf    string
	IdempotencyKeyV string
}

func (c CreateRequestCommand) Key() string { return createRequestKey }

func (c CreateRequestCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateRequestCommand) ResultPrototype() any { return &dto.BookingRequestView{} }

// CreateRequestHandler validates availability, quotes the stay from stored
// per-day prices and persists a PENDING booking request. The availability
// check here is advisory only; acceptance re-validates inside its
// transaction.
type CreateRequestHandler struct {
	UoWFactory uow.UoWFactory
	Notifier   policies.Notifier
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *CreateRequestHandler) Handle(ctx context.Context, cmd CreateRequestCommand) (*dto.BookingRequestView, error) {
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

	lst, err := unit.Listings().ByID(execCtx, domainlisting.ListingID(cmd.ListingID))
	if err != nil {
		return nil, err
	}
	if !lst.Published {
		return nil, domainlisting.ErrNotFound
	}
	guest, err := unit.Users().ByID(execCtx, domainuser.ID(cmd.GuestID))
	if err != nil {
		return nil, err
	}
	// Resolved before commit so the post-commit notification needs no reads.
	hostEmail := ""
	if host, err := unit.Users().ByID(execCtx, domainuser.ID(lst.Host)); err == nil {
		hostEmail, _ = host.PrimaryEmail()
	}

	validator := domainavailability.Validator{Inventory: unit.Inventory()}
	stay, err := validator.ValidateStay(execCtx, lst.ID, cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}

	quoter := domaininventory.Quoter{Inventory: unit.Inventory()}
	total, err := quoter.Quote(execCtx, lst.ID, stay, lst.NightlyRate.Currency)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	req, err := domainrequest.New(domainrequest.CreateParams{
		ID:           domainrequest.RequestID(cmd.CommandID),
		ListingID:    lst.ID,
		GuestID:      guest.ID,
		Stay:         stay,
		Guests:       cmd.Guests,
		Pets:         cmd.Pets,
		Message:      cmd.Message,
		TotalPrice:   total,
		AlterationOf: domainrequest.RequestID(cmd.AlterationOf),
		CreatedAt:    now,
	})
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

	if managed {
		if err := unit.Commit(execCtx); err != nil {
			return nil, err
		}
		committed = true
	}

	h.notifyHost(ctx, hostEmail, lst, guest, req)

	view := dto.MapBookingRequest(req)
	return &view, nil
}

// notifyHost runs after the transactional core; a missing host address or a
// delivery failure never fails the creation.
func (h *CreateRequestHandler) notifyHost(ctx context.Context, hostEmail string, lst *domainlisting.Listing, guest *domainuser.User, req *domainrequest.BookingRequest) {
	if h.Notifier == nil || hostEmail == "" {
		return
	}
	note := policies.RequestCreatedNote{
		RequestID:    string(req.ID),
		HostEmail:    hostEmail,
		GuestName:    guest.FullName(),
		ListingTitle: lst.Title,
		CheckIn:      req.Stay.CheckIn,
		CheckOut:     req.Stay.CheckOut,
		Guests:       req.Guests,
		TotalPrice:   req.TotalPrice,
	}
	if err := h.Notifier.BookingRequestCreated(ctx, note); err != nil {
		h.log().Warn("request created notification failed", "request_id", req.ID, "error", err)
	}
}

func (h *CreateRequestHandler) log() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

var _ commands.Handler[CreateRequestCommand, *dto.BookingRequestView] = (*CreateRequestHandler)(nil)
var _ middleware.IdempotentCommand = (*CreateRequestCommand)(nil)
