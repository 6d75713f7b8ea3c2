package requests

import (
	"context"
	"errors"
	"strings"

	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/support"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	domainlisting "staybook/internal/domain/listing"
	domainrequest "staybook/internal/domain/request"
	domainuser "staybook/internal/domain/user"
)

const (
	getRequestKey    = "request.get"
	listRequestsKey  = "request.list"
	defaultListLimit = 50
)

type GetRequestQuery struct {
	RequestID        string
	RequestingUserID string
}

func (q GetRequestQuery) Key() string { return getRequestKey }

// GetRequestHandler returns a request only to its guest or to the host of
// its listing; anyone else sees not-found.
type GetRequestHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetRequestHandler) Handle(ctx context.Context, q GetRequestQuery) (*dto.BookingRequestView, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	req, err := unit.Requests().ByID(execCtx, domainrequest.RequestID(q.RequestID))
	if err != nil {
		return nil, err
	}
	if string(req.GuestID) != q.RequestingUserID {
		lst, err := unit.Listings().ByID(execCtx, req.ListingID)
		if err != nil || string(lst.Host) != q.RequestingUserID {
			return nil, domainrequest.ErrNotFound
		}
	}
	view := dto.MapBookingRequest(req)
	return &view, nil
}

type ListRequestsQuery struct {
	ListingID        string
	Status           string
	Take             int
	Skip             int
	RequestingUserID string
}

func (q ListRequestsQuery) Key() string { return listRequestsKey }

// ListRequestsHandler lists requests in the requester's view: the host of a
// listing sees that listing's requests, everyone else sees only their own.
type ListRequestsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListRequestsHandler) Handle(ctx context.Context, q ListRequestsQuery) (dto.BookingRequestCollection, error) {
	requester := strings.TrimSpace(q.RequestingUserID)
	if requester == "" {
		return dto.BookingRequestCollection{}, errors.New("requests: requesting user id is required")
	}
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingRequestCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	filter := domainrequest.Filter{
		Status: domainrequest.Status(strings.ToUpper(strings.TrimSpace(q.Status))),
		Take:   q.Take,
		Skip:   q.Skip,
	}
	if filter.Take <= 0 || filter.Take > defaultListLimit {
		filter.Take = defaultListLimit
	}

	hostView := false
	if q.ListingID != "" {
		lst, err := unit.Listings().ByID(execCtx, domainlisting.ListingID(q.ListingID))
		if err != nil {
			return dto.BookingRequestCollection{}, err
		}
		filter.ListingID = lst.ID
		hostView = string(lst.Host) == requester
	}
	if !hostView {
		filter.GuestID = domainuser.ID(requester)
	}

	items, err := unit.Requests().List(execCtx, filter)
	if err != nil {
		return dto.BookingRequestCollection{}, err
	}
	return dto.MapBookingRequests(items), nil
}

var _ queries.Handler[GetRequestQuery, *dto.BookingRequestView] = (*GetRequestHandler)(nil)
var _ queries.Handler[ListRequestsQuery, dto.BookingRequestCollection] = (*ListRequestsHandler)(nil)
