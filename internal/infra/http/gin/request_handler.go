package ginserver

import (
	"net/http"
	"strconv"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	requestapp "staybook/internal/app/handlers/requests"
	"staybook/internal/app/queries"
)

type RequestHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createRequestBody struct {
	ListingID    string    `json:"listing_id"`
	CheckIn      time.Time `json:"check_in"`
	CheckOut     time.Time `json:"check_out"`
	Guests       int       `json:"guests"`
	Pets         bool      `json:"pets"`
	Message      string    `json:"message"`
	AlterationOf string    `json:"alteration_of"`
}

func (h RequestHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var body createRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := requestapp.CreateRequestCommand{
		CommandID:       generateCommandID(),
		ListingID:       body.ListingID,
		GuestID:         actor,
		CheckIn:         body.CheckIn,
		CheckOut:        body.CheckOut,
		Guests:          body.Guests,
		Pets:            body.Pets,
		Message:         body.Message,
		AlterationOf:    body.AlterationOf,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[requestapp.CreateRequestCommand, *dto.BookingRequestView](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h RequestHandler) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := requestapp.GetRequestQuery{
		RequestID:        c.Param("id"),
		RequestingUserID: actor,
	}
	result, err := queries.Ask[requestapp.GetRequestQuery, *dto.BookingRequestView](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h RequestHandler) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := requestapp.ListRequestsQuery{
		ListingID:        c.Query("listing_id"),
		Status:           c.Query("status"),
		Take:             queryInt(c, "take"),
		Skip:             queryInt(c, "skip"),
		RequestingUserID: actor,
	}
	result, err := queries.Ask[requestapp.ListRequestsQuery, dto.BookingRequestCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type changeStatusBody struct {
	Status string `json:"status"`
}

func (h RequestHandler) ChangeStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var body changeStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := requestapp.ChangeStatusCommand{
		RequestID: c.Param("id"),
		NewStatus: body.Status,
		HostID:    actor,
	}
	result, err := commands.Dispatch[requestapp.ChangeStatusCommand, *requestapp.ChangeStatusResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func queryInt(c *gin.Context, key string) int {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func generateCommandID() string {
	return uuid.NewString()
}

var _ RequestHTTP = RequestHandler{}
