package ginserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/app/commands"
	bookingapp "staybook/internal/app/handlers/bookings"
	calendarapp "staybook/internal/app/handlers/calendar"
	requestapp "staybook/internal/app/handlers/requests"
	"staybook/internal/app/middleware"
	appoutbox "staybook/internal/app/outbox"
	"staybook/internal/app/queries"
	domaininventory "staybook/internal/domain/inventory"
	domainlisting "staybook/internal/domain/listing"
	domainrequest "staybook/internal/domain/request"
	"staybook/internal/domain/shared/money"
	domainuser "staybook/internal/domain/user"
	"staybook/internal/infra/config"
	"staybook/internal/infra/obs"
	"staybook/internal/infra/storage/memory"
)

func newTestServer(t *testing.T) (http.Handler, *memory.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	store.PutUser(&domainuser.User{ID: "guest-1", FirstName: "Ana", ContactEmails: []string{"ana@example.com"}})
	store.PutUser(&domainuser.User{ID: "host-1", FirstName: "Hugo", ContactEmails: []string{"hugo@example.com"}})
	store.PutListing(&domainlisting.Listing{
		ID:          "listing-1",
		Host:        "host-1",
		Title:       "Sunny loft",
		NightlyRate: money.Must(100, "USD"),
		Published:   true,
	})
	for d := 1; d <= 2; d++ {
		store.PutDay(domaininventory.NewDay("listing-1", date(2026, 10, d), money.Must(120, "USD")))
	}

	factory := memory.Factory{Store: store}
	box := memory.NewOutbox()
	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, requestapp.CreateRequestCommand{}.Key(), &requestapp.CreateRequestHandler{
		UoWFactory: factory, Outbox: box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, requestapp.ChangeStatusCommand{}.Key(), &requestapp.ChangeStatusHandler{
		UoWFactory: factory, Outbox: box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.UpdateBookingCommand{}.Key(), &bookingapp.UpdateBookingHandler{
		UoWFactory: factory, Outbox: box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, calendarapp.EditCalendarCommand{}.Key(), &calendarapp.EditCalendarHandler{})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, requestapp.GetRequestQuery{}.Key(), &requestapp.GetRequestHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, requestapp.ListRequestsQuery{}.Key(), &requestapp.ListRequestsHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, bookingapp.ListGuestBookingsQuery{}.Key(), &bookingapp.ListGuestBookingsHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, calendarapp.GetCalendarQuery{}.Key(), &calendarapp.GetCalendarHandler{UoWFactory: factory})

	commandChain := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(memory.NewIdempotencyStore(), nil),
		middleware.OutboxFlush(box),
		middleware.Transaction(factory),
	)
	queryChain := middleware.ChainQueries(queryBus)

	server := NewServer(config.Config{Env: "test", HTTPAddr: ":0"}, obs.Middleware{}, obs.HealthHandlers{}, Handlers{
		Requests: RequestHandler{Commands: commandChain, Queries: queryChain},
		Bookings: BookingHandler{Commands: commandChain, Queries: queryChain},
		Calendar: CalendarHandler{Commands: commandChain, Queries: queryChain},
	})
	return server.Handler, store
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func doJSON(t *testing.T, h http.Handler, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndDecideOverHTTP(t *testing.T) {
	h, store := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/booking-requests", "guest-1", map[string]any{
		"listing_id": "listing-1",
		"check_in":   "2026-10-01T15:00:00Z",
		"check_out":  "2026-10-03T11:00:00Z",
		"guests":     2,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID         string `json:"id"`
		TotalPrice int64  `json:"total_price"`
		Status     string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int64(240), created.TotalPrice)
	assert.Equal(t, "PENDING", created.Status)

	rec = doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/v1/booking-requests/%s/status", created.ID), "host-1", map[string]any{
		"status": "ACCEPTED",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// second acceptance conflicts
	rec = doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/v1/booking-requests/%s/status", created.ID), "host-1", map[string]any{
		"status": "ACCEPTED",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	assert.Equal(t, 1, store.BookingCount())
}

func TestCreateRequiresIdentityHeader(t *testing.T) {
	h, _ := newTestServer(t)
	rec := doJSON(t, h, http.MethodPost, "/api/v1/booking-requests", "", map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateInvalidRangeIsBadRequest(t *testing.T) {
	h, _ := newTestServer(t)
	rec := doJSON(t, h, http.MethodPost, "/api/v1/booking-requests", "guest-1", map[string]any{
		"listing_id": "listing-1",
		"check_in":   "2026-10-03T00:00:00Z",
		"check_out":  "2026-10-01T00:00:00Z",
		"guests":     1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownListingIsNotFound(t *testing.T) {
	h, _ := newTestServer(t)
	rec := doJSON(t, h, http.MethodPost, "/api/v1/booking-requests", "guest-1", map[string]any{
		"listing_id": "nope",
		"check_in":   "2026-10-01T00:00:00Z",
		"check_out":  "2026-10-03T00:00:00Z",
		"guests":     1,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIdempotencyKeyReplaysCreation(t *testing.T) {
	h, store := newTestServer(t)

	post := func() *httptest.ResponseRecorder {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(map[string]any{
			"listing_id": "listing-1",
			"check_in":   "2026-10-01T00:00:00Z",
			"check_out":  "2026-10-03T00:00:00Z",
			"guests":     2,
		}))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/booking-requests", &buf)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", "guest-1")
		req.Header.Set("Idempotency-Key", "retry-1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	first := post()
	require.Equal(t, http.StatusCreated, first.Code)
	second := post()
	require.Equal(t, http.StatusCreated, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &created))
	_, ok := store.Request(domainrequest.RequestID(created.ID))
	assert.True(t, ok)
}

func TestHealthEndpoints(t *testing.T) {
	h, _ := newTestServer(t)
	for _, path := range []string{"/livez", "/readyz"} {
		rec := doJSON(t, h, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
