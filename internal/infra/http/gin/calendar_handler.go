package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	calendarapp "staybook/internal/app/handlers/calendar"
	"staybook/internal/app/queries"
)

type CalendarHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

func (h CalendarHandler) Get(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	from, ok := queryDate(c, "from")
	if !ok {
		return
	}
	to, ok := queryDate(c, "to")
	if !ok {
		return
	}
	query := calendarapp.GetCalendarQuery{
		ListingID: c.Param("id"),
		From:      from,
		To:        to,
	}
	result, err := queries.Ask[calendarapp.GetCalendarQuery, dto.CalendarView](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type editCalendarBody struct {
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	Available *bool     `json:"available"`
	Price     *int64    `json:"price"`
}

func (h CalendarHandler) Edit(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var body editCalendarBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := calendarapp.EditCalendarCommand{
		HostID:    actor,
		ListingID: c.Param("id"),
		From:      body.From,
		To:        body.To,
		Available: body.Available,
		Price:     body.Price,
	}
	result, err := commands.Dispatch[calendarapp.EditCalendarCommand, *calendarapp.EditCalendarResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func queryDate(c *gin.Context, key string) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": key + " query parameter is required"})
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key + " date"})
		return time.Time{}, false
	}
	return t, true
}

var _ CalendarHTTP = CalendarHandler{}
