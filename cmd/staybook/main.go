package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"staybook/internal/app/commands"
	bookingapp "staybook/internal/app/handlers/bookings"
	calendarapp "staybook/internal/app/handlers/calendar"
	requestapp "staybook/internal/app/handlers/requests"
	"staybook/internal/app/middleware"
	appoutbox "staybook/internal/app/outbox"
	"staybook/internal/app/policies"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	domaininventory "staybook/internal/domain/inventory"
	domainlisting "staybook/internal/domain/listing"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
	domainuser "staybook/internal/domain/user"
	brokerkafka "staybook/internal/infra/broker/kafka"
	"staybook/internal/infra/config"
	mongostore "staybook/internal/infra/db/mongo"
	ginserver "staybook/internal/infra/http/gin"
	"staybook/internal/infra/notify"
	"staybook/internal/infra/obs"
	infraoutbox "staybook/internal/infra/outbox"
	"staybook/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("using fallback configuration", "error", err)
		cfg.Env = env
		cfg.HTTPAddr = getenv("HTTP_ADDR", ":8080")
		cfg.StorageMode = "memory"
		cfg.DefaultCurrency = "USD"
	}

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.close()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	if cfg.StorageMode == "memory" {
		fixturesPath := cfg.FixturesPath
		if fixturesPath == "" {
			fixturesPath = defaultFixturesPath()
		}
		if err := app.loadFixtures(fixturesPath, cfg.DefaultCurrency, logger); err != nil {
			logger.Warn("fixtures load failed", "error", err, "path", fixturesPath)
		}
	}

	for _, worker := range app.workers {
		w := worker
		go func() {
			if err := w(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("background worker stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	workers  []func(ctx context.Context) error
	ready    func() error
	closers  []func() error

	memStore *memory.Store
}

func (a *application) close() {
	for _, c := range a.closers {
		_ = c()
	}
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{ready: func() error { return nil }}

	var (
		factory     uow.UoWFactory
		outboxStore appoutbox.Outbox
		durable     *infraoutbox.Store
	)
	idStore := memory.NewIdempotencyStore()

	switch cfg.StorageMode {
	case "mongo":
		client, err := mongostore.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		factory = mongostore.Factory{
			DB:            client.DB,
			ListingsRepo:  mongostore.NewListingRepository(client.DB),
			UsersRepo:     mongostore.NewUserRepository(client.DB),
			InventoryRepo: mongostore.NewInventoryRepository(client.DB),
			RequestsRepo:  mongostore.NewRequestRepository(client.DB),
			BookingsRepo:  mongostore.NewBookingRepository(client.DB),
		}
		durable = infraoutbox.NewStore(client.DB)
		outboxStore = durable
		app.ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
	default:
		store := memory.NewStore()
		app.memStore = store
		factory = memory.Factory{Store: store}
		outboxStore = memory.NewOutbox()
	}

	notifier := policies.Notifier(notify.LogNotifier{Logger: logger})
	if cfg.KafkaEnabled() {
		producer, err := brokerkafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		app.closers = append(app.closers, producer.Close)
		topic := cfg.KafkaTopicPrefix + cfg.NotifyTopic
		notifier = notify.KafkaNotifier{Producer: producer, Topic: topic}

		consumer, err := brokerkafka.NewConsumer(cfg.KafkaBrokers, "staybook-notify", nil, notify.Relay{Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("kafka consumer: %w", err)
		}
		app.closers = append(app.closers, consumer.Close)
		app.workers = append(app.workers, func(ctx context.Context) error {
			return consumer.Run(ctx, []string{topic})
		})

		if durable != nil {
			relay := &infraoutbox.Worker{
				Store:       durable,
				Producer:    producer,
				Interval:    cfg.OutboxPollInterval,
				TopicPrefix: cfg.KafkaTopicPrefix,
			}
			app.workers = append(app.workers, relay.Run)
		}
	}

	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, requestapp.CreateRequestCommand{}.Key(), &requestapp.CreateRequestHandler{
		UoWFactory: factory,
		Notifier:   notifier,
		Outbox:     outboxStore,
		Encoder:    encoder,
		Logger:     logger,
	})
	commands.RegisterHandler(commandBus, requestapp.ChangeStatusCommand{}.Key(), &requestapp.ChangeStatusHandler{
		UoWFactory: factory,
		Notifier:   notifier,
		Outbox:     outboxStore,
		Encoder:    encoder,
		Logger:     logger,
	})
	commands.RegisterHandler(commandBus, bookingapp.UpdateBookingCommand{}.Key(), &bookingapp.UpdateBookingHandler{
		UoWFactory: factory,
		Notifier:   notifier,
		Outbox:     outboxStore,
		Encoder:    encoder,
		Logger:     logger,
	})
	commands.RegisterHandler(commandBus, calendarapp.EditCalendarCommand{}.Key(), &calendarapp.EditCalendarHandler{
		Logger: logger,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, requestapp.GetRequestQuery{}.Key(), &requestapp.GetRequestHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, requestapp.ListRequestsQuery{}.Key(), &requestapp.ListRequestsHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, bookingapp.ListGuestBookingsQuery{}.Key(), &bookingapp.ListGuestBookingsHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, calendarapp.GetCalendarQuery{}.Key(), &calendarapp.GetCalendarHandler{UoWFactory: factory})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(idStore, nil),
		middleware.OutboxFlush(outboxStore),
		middleware.Transaction(factory),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	app.handlers = ginserver.Handlers{
		Requests: ginserver.RequestHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
		},
		Bookings: ginserver.BookingHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
		},
		Calendar: ginserver.CalendarHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
		},
	}
	return app, nil
}

func (a *application) loadFixtures(path, currency string, logger *slog.Logger) error {
	if a.memStore == nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}

	var fixtures fixtureFile
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	now := time.Now().UTC()
	for _, fx := range fixtures.Users {
		a.memStore.PutUser(&domainuser.User{
			ID:            domainuser.ID(fx.ID),
			FirstName:     fx.FirstName,
			LastName:      fx.LastName,
			ContactEmails: append([]string(nil), fx.Emails...),
			CreatedAt:     now,
		})
	}
	for _, fx := range fixtures.Listings {
		cur := fx.Currency
		if cur == "" {
			cur = currency
		}
		rate, err := money.New(fx.NightlyRate, cur)
		if err != nil {
			logger.Error("fixture listing invalid", "listing_id", fx.ID, "error", err)
			continue
		}
		a.memStore.PutListing(&domainlisting.Listing{
			ID:           domainlisting.ListingID(fx.ID),
			Host:         domainlisting.HostID(fx.Host),
			Title:        fx.Title,
			NightlyRate:  rate,
			CheckInTime:  fx.CheckInTime,
			CheckOutTime: fx.CheckOutTime,
			Timezone:     fx.Timezone,
			Published:    fx.Published,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		logger.Info("listing fixture imported", "listing_id", fx.ID)
	}
	for _, fx := range fixtures.Days {
		date, err := time.Parse("2006-01-02", fx.Date)
		if err != nil {
			logger.Error("fixture day invalid", "listing_id", fx.ListingID, "date", fx.Date, "error", err)
			continue
		}
		cur := fx.Currency
		if cur == "" {
			cur = currency
		}
		price, err := money.New(fx.Price, cur)
		if err != nil {
			logger.Error("fixture day invalid", "listing_id", fx.ListingID, "date", fx.Date, "error", err)
			continue
		}
		day := domaininventory.NewDay(domainlisting.ListingID(fx.ListingID), daterange.Day(date), price)
		day.Available = fx.Available
		a.memStore.PutDay(day)
	}
	return nil
}

type fixtureFile struct {
	Users    []userFixture    `json:"users"`
	Listings []listingFixture `json:"listings"`
	Days     []dayFixture     `json:"days"`
}

type userFixture struct {
	ID        string   `json:"id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Emails    []string `json:"emails"`
}

type listingFixture struct {
	ID           string `json:"id"`
	Host         string `json:"host"`
	Title        string `json:"title"`
	NightlyRate  int64  `json:"nightly_rate"`
	Currency     string `json:"currency"`
	CheckInTime  string `json:"check_in_time"`
	CheckOutTime string `json:"check_out_time"`
	Timezone     string `json:"timezone"`
	Published    bool   `json:"published"`
}

type dayFixture struct {
	ListingID string `json:"listing_id"`
	Date      string `json:"date"`
	Available bool   `json:"available"`
	Price     int64  `json:"price"`
	Currency  string `json:"currency"`
}

func defaultFixturesPath() string {
	candidates := []string{
		filepath.Join("data", "fixtures.json"),
		filepath.Join("deploy", "fixtures.json"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return candidates[0]
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
