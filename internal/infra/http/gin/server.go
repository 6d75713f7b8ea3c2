package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"staybook/internal/infra/config"
	"staybook/internal/infra/obs"
)

type RequestHTTP interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	List(c *gin.Context)
	ChangeStatus(c *gin.Context)
}

type BookingHTTP interface {
	Update(c *gin.Context)
	ListMine(c *gin.Context)
}

type CalendarHTTP interface {
	Get(c *gin.Context)
	Edit(c *gin.Context)
}

type Handlers struct {
	Requests RequestHTTP
	Bookings BookingHTTP
	Calendar CalendarHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key", "X-User-ID"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Requests != nil {
		api.POST("/booking-requests", h.Requests.Create)
		api.GET("/booking-requests", h.Requests.List)
		api.GET("/booking-requests/:id", h.Requests.Get)
		api.POST("/booking-requests/:id/status", h.Requests.ChangeStatus)
	}
	if h.Bookings != nil {
		api.PATCH("/bookings/:id", h.Bookings.Update)
		api.GET("/me/bookings", h.Bookings.ListMine)
	}
	if h.Calendar != nil {
		hostGroup := api.Group("/host/listings")
		hostGroup.GET("/:id/calendar", h.Calendar.Get)
		hostGroup.PUT("/:id/calendar", h.Calendar.Edit)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
