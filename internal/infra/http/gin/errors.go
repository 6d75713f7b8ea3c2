package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	domainbooking "staybook/internal/domain/booking"
	domaininventory "staybook/internal/domain/inventory"
	domainlisting "staybook/internal/domain/listing"
	domainrequest "staybook/internal/domain/request"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
	domainuser "staybook/internal/domain/user"
	mongostore "staybook/internal/infra/db/mongo"
	memstore "staybook/internal/infra/storage/memory"
)

// writeError maps domain errors onto HTTP statuses: validation failures are
// 400, unknown entities 404, conflicts with current state 409.
func writeError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, daterange.ErrBelowMinimumStay),
		errors.Is(err, domainbooking.ErrInvalidDateRange),
		errors.Is(err, domainrequest.ErrInvalidGuests),
		errors.Is(err, money.ErrInvalidCurrency),
		errors.Is(err, money.ErrCurrencyMismatch):
		return http.StatusBadRequest
	case errors.Is(err, domainlisting.ErrNotFound),
		errors.Is(err, domainuser.ErrNotFound),
		errors.Is(err, domainrequest.ErrNotFound),
		errors.Is(err, domainbooking.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domaininventory.ErrDatesUnavailable),
		errors.Is(err, domaininventory.ErrAlreadyClaimed),
		errors.Is(err, domainrequest.ErrInvalidTransition),
		errors.Is(err, mongostore.ErrConcurrentUpdate),
		errors.Is(err, memstore.ErrConcurrentUpdate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
