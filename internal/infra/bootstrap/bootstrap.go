package bootstrap

import (
	"log/slog"

	"homestay/internal/app/commands"
	"homestay/internal/app/dto"
	bookingapp "homestay/internal/app/handlers/booking"
	calendarapp "homestay/internal/app/handlers/calendar"
	quoteapp "homestay/internal/app/handlers/quote"
	"homestay/internal/app/middleware"
	"homestay/internal/app/outbox"
	"homestay/internal/app/policies"
	"homestay/internal/app/queries"
	"homestay/internal/domain/availability"
	ginserver "homestay/internal/infra/http/gin"
	"homestay/internal/infra/obs"
)

// Deps are the adapters the application layer runs on; storage mode decides which ones.
type Deps struct {
	Listings     policies.ListingReader
	Availability availability.Repository
	Settings     policies.SettingsReader
	Clock        policies.Clock
	Outbox       outbox.Outbox
	Idempotency  middleware.IdempotencyStore
	Encoder      outbox.EventEncoder
	Metrics      *obs.Metrics
	Logger       *slog.Logger
	IDGenerator  func() string
}

type Buses struct {
	Commands commands.Bus
	Queries  queries.Bus
}

func NewBuses(d Deps) Buses {
	if d.Clock == nil {
		d.Clock = policies.SystemClock{}
	}
	if d.Encoder == nil {
		d.Encoder = outbox.JSONEventEncoder{Source: "homestay"}
	}

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler[calendarapp.GetMonthQuery, dto.MonthView](queryBus, &calendarapp.GetMonthHandler{
		Listings:     d.Listings,
		Availability: d.Availability,
		Clock:        d.Clock,
	})
	queries.RegisterHandler[calendarapp.SelectDateQuery, dto.ClickResult](queryBus, &calendarapp.SelectDateHandler{
		Listings:     d.Listings,
		Availability: d.Availability,
		Clock:        d.Clock,
		Observer:     d.Metrics,
	})
	queries.RegisterHandler[quoteapp.GetQuoteQuery, dto.Quote](queryBus, &quoteapp.GetQuoteHandler{
		Listings:     d.Listings,
		Availability: d.Availability,
		Settings:     d.Settings,
		Observer:     d.Metrics,
	})

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler[bookingapp.SubmitBookingCommand, dto.BookingSubmission](commandBus, &bookingapp.SubmitBookingHandler{
		Listings:     d.Listings,
		Availability: d.Availability,
		Settings:     d.Settings,
		Clock:        d.Clock,
		Outbox:       d.Outbox,
		Encoder:      d.Encoder,
		IDGenerator:  d.IDGenerator,
	})

	cmdMiddleware := []middleware.CommandMiddleware{
		middleware.Logging(d.Logger),
		middleware.Metrics(d.Metrics),
		middleware.Validation(),
	}
	if d.Idempotency != nil {
		cmdMiddleware = append(cmdMiddleware, middleware.Idempotency(d.Idempotency, nil))
	}
	if d.Outbox != nil {
		cmdMiddleware = append(cmdMiddleware, middleware.OutboxFlush(d.Outbox, d.Logger))
	}

	return Buses{
		Commands: middleware.ChainCommands(commandBus, cmdMiddleware...),
		Queries: middleware.ChainQueries(queryBus,
			middleware.QueryLogging(d.Logger),
			middleware.QueryMetrics(d.Metrics),
			middleware.QueryValidation(),
		),
	}
}

func HTTPHandlers(b Buses, logger *slog.Logger, metrics *obs.Metrics) ginserver.Handlers {
	h := ginserver.Handlers{
		Calendar: ginserver.CalendarHandler{Queries: b.Queries, Logger: logger},
		Quote:    ginserver.QuoteHandler{Queries: b.Queries, Logger: logger},
		Booking:  ginserver.BookingHandler{Commands: b.Commands, Logger: logger},
	}
	if metrics != nil {
		h.Metrics = metrics.Handler()
	}
	return h
}
