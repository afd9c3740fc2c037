package ginserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homestay/internal/app/dto"
	appoutbox "homestay/internal/app/outbox"
	"homestay/internal/app/policies"
	"homestay/internal/domain/availability"
	"homestay/internal/domain/listings"
	"homestay/internal/domain/pricing"
	"homestay/internal/domain/settings"
	"homestay/internal/domain/shared/datekey"
	"homestay/internal/infra/bootstrap"
	ginserver "homestay/internal/infra/http/gin"
	"homestay/internal/infra/obs"
	"homestay/internal/infra/storage/memory"
)

type testApp struct {
	router *gin.Engine
	outbox *memory.Outbox
}

func newTestApp(t *testing.T) testApp {
	t.Helper()
	return newTestAppWithPublisher(t, nil)
}

func newTestAppWithPublisher(t *testing.T, publisher appoutbox.Publisher) testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	listingRepo := memory.NewListingRepository()
	villa, err := listings.NewListing(listings.CreateListingParams{
		ID: "villa", Host: "host-1", Title: "Tea estate villa", NightlyRate: "2500", GuestsLimit: 4, Now: now,
	})
	require.NoError(t, err)
	require.NoError(t, listingRepo.Save(ctx, villa))

	availRepo := memory.NewAvailabilityRepository()
	cal := availability.NewCalendar("villa")
	cal.ExtraDates = []datekey.Key{"2026-03-12"}
	require.NoError(t, availRepo.Save(ctx, cal))

	site := memory.NewSettingsStore(settings.SiteSettings{
		Fee: &pricing.FeePolicy{Type: pricing.ServiceCharge, Kind: pricing.KindPercent, Value: decimal.NewFromInt(10), AppliesTo: pricing.AppliesToGuest},
		PartialPayment: settings.PartialPayment{
			Enabled:        true,
			DefaultPercent: decimal.NewFromInt(30),
			MinPercent:     decimal.NewFromInt(20),
		},
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := obs.NewMetrics("homestay_test")
	box := memory.NewOutbox(publisher)
	ids := 0
	buses := bootstrap.NewBuses(bootstrap.Deps{
		Listings:     listingRepo,
		Availability: availRepo,
		Settings:     site,
		Clock:        policies.FixedClock{At: now},
		Outbox:       box,
		Idempotency:  memory.NewIdempotencyStore(time.Hour),
		Metrics:      metrics,
		Logger:       logger,
		IDGenerator: func() string {
			ids++
			return fmt.Sprintf("req-%d", ids)
		},
	})
	router := ginserver.NewRouter(obs.Middleware{Logger: logger, Metrics: metrics}, obs.HealthHandlers{}, bootstrap.HTTPHandlers(buses, logger, metrics))
	return testApp{router: router, outbox: box}
}

func (a testApp) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestCalendarMonth(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/v1/listings/villa/calendar?month=2026-03&check_in=2026-03-05&check_out=2026-03-08", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode[dto.MonthView](t, rec)

	assert.Equal(t, "2026-03", view.Month)
	assert.Equal(t, "2026-02", view.PrevMonth)
	assert.Equal(t, "2026-04", view.NextMonth)
	assert.Equal(t, datekey.Key("2026-03-01"), view.Today)
	require.Len(t, view.Cells, availability.GridSize)
	assert.Equal(t, datekey.Key("2026-03-01"), view.Cells[0].Date)
	assert.True(t, view.Cells[0].IsCurrentMonth)
	assert.False(t, view.Cells[0].IsPast)
	assert.True(t, view.Cells[4].IsCheckIn)
	assert.True(t, view.Cells[5].InRange)
	assert.True(t, view.Cells[7].IsCheckOut)
	assert.True(t, view.Cells[11].IsBlocked)
	assert.True(t, view.Cells[11].Disabled)
	assert.Equal(t, 3, view.Gate.Nights)
	assert.True(t, view.Gate.Submittable)
}

func TestCalendarMonthStepAndPast(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/v1/listings/villa/calendar?month=2026-03&step=-3", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[dto.MonthView](t, rec)
	assert.Equal(t, "2026-02", view.Month)
	for _, cell := range view.Cells {
		if cell.IsCurrentMonth {
			assert.True(t, cell.IsPast, cell.Date)
			assert.True(t, cell.Disabled, cell.Date)
		}
	}
}

func TestCalendarErrors(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/v1/listings/nope/calendar", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/v1/listings/villa/calendar?month=March", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/v1/listings/villa/calendar?step=x", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSelectionClicks(t *testing.T) {
	app := newTestApp(t)
	path := "/api/v1/listings/villa/selection"

	first := decode[dto.ClickResult](t, app.do(t, http.MethodPost, path, map[string]string{"date": "2026-03-05"}, nil))
	assert.Equal(t, availability.ClickCheckInSet, first.Outcome)
	assert.Equal(t, availability.CheckInOnly, first.Selection.State)

	blocked := decode[dto.ClickResult](t, app.do(t, http.MethodPost, path, map[string]string{"check_in": "2026-03-05", "date": "2026-03-14"}, nil))
	assert.Equal(t, availability.ClickRejectedBlocked, blocked.Outcome)
	assert.Equal(t, datekey.Key("2026-03-05"), blocked.Selection.CheckIn)
	assert.True(t, blocked.Selection.CheckOut.IsZero())

	done := decode[dto.ClickResult](t, app.do(t, http.MethodPost, path, map[string]string{"check_in": "2026-03-05", "date": "2026-03-10"}, nil))
	assert.Equal(t, availability.ClickCheckOutSet, done.Outcome)
	assert.Equal(t, 5, done.Gate.Nights)
	assert.True(t, done.Gate.Submittable)

	past := decode[dto.ClickResult](t, app.do(t, http.MethodPost, path, map[string]string{"check_in": "2026-03-05", "date": "2026-02-27"}, nil))
	assert.Equal(t, availability.ClickIgnoredDisabled, past.Outcome)
	assert.Equal(t, datekey.Key("2026-03-05"), past.Selection.CheckIn)

	rec := app.do(t, http.MethodPost, path, map[string]string{}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuote(t *testing.T) {
	app := newTestApp(t)
	path := "/api/v1/listings/villa/quote"

	full := decode[dto.Quote](t, app.do(t, http.MethodPost, path, map[string]any{"check_in": "2026-03-05", "check_out": "2026-03-10"}, nil))
	assert.Equal(t, pricing.PaymentFull, full.PaymentType)
	assert.Equal(t, 2500.0, full.NightlyRate)
	assert.Equal(t, "INR", full.Currency)
	assert.Equal(t, pricing.Result{
		Subtotal:      12500,
		FeeAmount:     1250,
		FeeLabel:      "Service fee (10%)",
		Total:         13750,
		PayNowAmount:  13750,
		PayNowPercent: 110,
	}, full.Pricing)
	assert.Empty(t, full.Warning)

	partial := decode[dto.Quote](t, app.do(t, http.MethodPost, path, map[string]any{
		"check_in": "2026-03-05", "check_out": "2026-03-10", "payment_type": "partial", "partial_percent": 10,
	}, nil))
	assert.Equal(t, pricing.PaymentPartial, partial.PaymentType)
	assert.Equal(t, pricing.Result{Subtotal: 12500, Total: 12500, PayNowAmount: 2500, PayNowPercent: 20}, partial.Pricing)
	assert.True(t, partial.PartialPayment.Enabled)
	assert.Equal(t, 30.0, partial.PartialPayment.DefaultPercent)

	withBlocked := decode[dto.Quote](t, app.do(t, http.MethodPost, path, map[string]any{"check_in": "2026-03-10", "check_out": "2026-03-14"}, nil))
	assert.False(t, withBlocked.Gate.Submittable)
	assert.True(t, withBlocked.Gate.HasBlockedDates)
	assert.Equal(t, dto.BlockedDatesWarning, withBlocked.Warning)

	empty := decode[dto.Quote](t, app.do(t, http.MethodPost, path, nil, nil))
	assert.Equal(t, 0, empty.Gate.Nights)
	assert.Equal(t, 0.0, empty.Pricing.Total)
}

func TestSubmitBooking(t *testing.T) {
	app := newTestApp(t)
	body := map[string]any{
		"listing_id": "villa",
		"check_in":   "2026-03-05",
		"check_out":  "2026-03-10",
		"guests":     2,
		"message":    "  Arriving late  ",
	}
	headers := map[string]string{"Idempotency-Key": "abc"}

	rec := app.do(t, http.MethodPost, "/api/v1/bookings", body, headers)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	first := decode[dto.BookingSubmission](t, rec)
	assert.Equal(t, "req-1", first.RequestID)
	assert.Equal(t, "Arriving late", first.Payload.Message)
	assert.Equal(t, 2, first.Payload.Guests)
	assert.Equal(t, 13750.0, first.Pricing.Total)

	delivered := app.outbox.Delivered()
	require.Len(t, delivered, 1)
	assert.Equal(t, "booking.requested", delivered[0].Name)
	assert.Equal(t, "villa", delivered[0].Aggregate)

	again := decode[dto.BookingSubmission](t, app.do(t, http.MethodPost, "/api/v1/bookings", body, headers))
	assert.Equal(t, first.RequestID, again.RequestID)
	assert.Len(t, app.outbox.Delivered(), 1)
}

type flakyPublisher struct {
	failures  int
	published []appoutbox.EventRecord
}

func (p *flakyPublisher) Publish(ctx context.Context, rec appoutbox.EventRecord) error {
	if p.failures > 0 {
		p.failures--
		return errors.New("broker down")
	}
	p.published = append(p.published, rec)
	return nil
}

func TestSubmitBookingSurvivesPublishFailure(t *testing.T) {
	pub := &flakyPublisher{failures: 1}
	app := newTestAppWithPublisher(t, pub)
	headers := map[string]string{"Idempotency-Key": "flaky"}
	body := map[string]any{"listing_id": "villa", "check_in": "2026-03-05", "check_out": "2026-03-08", "guests": 2}

	rec := app.do(t, http.MethodPost, "/api/v1/bookings", body, headers)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	first := decode[dto.BookingSubmission](t, rec)
	assert.Empty(t, pub.published)
	require.Len(t, app.outbox.Pending(), 1)

	rec = app.do(t, http.MethodPost, "/api/v1/bookings", body, headers)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	assert.Equal(t, first.RequestID, decode[dto.BookingSubmission](t, rec).RequestID)

	other := map[string]any{"listing_id": "villa", "check_in": "2026-03-20", "check_out": "2026-03-22", "guests": 1}
	rec = app.do(t, http.MethodPost, "/api/v1/bookings", other, map[string]string{"Idempotency-Key": "other"})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	require.Len(t, pub.published, 2)
	assert.Empty(t, app.outbox.Pending())
	var published []string
	for _, r := range pub.published {
		var ev struct {
			RequestID string `json:"request_id"`
		}
		require.NoError(t, json.Unmarshal(r.Payload, &ev))
		published = append(published, ev.RequestID)
	}
	assert.Equal(t, []string{first.RequestID, "req-2"}, published)
}

func TestSubmitBookingRejections(t *testing.T) {
	app := newTestApp(t)
	cases := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"blocked night inside range", map[string]any{"listing_id": "villa", "check_in": "2026-03-10", "check_out": "2026-03-14", "guests": 2}, http.StatusUnprocessableEntity},
		{"too many guests", map[string]any{"listing_id": "villa", "check_in": "2026-03-05", "check_out": "2026-03-07", "guests": 9}, http.StatusUnprocessableEntity},
		{"check-out before check-in", map[string]any{"listing_id": "villa", "check_in": "2026-03-07", "check_out": "2026-03-05", "guests": 2}, http.StatusUnprocessableEntity},
		{"check-in in the past", map[string]any{"listing_id": "villa", "check_in": "2026-02-20", "check_out": "2026-02-22", "guests": 2}, http.StatusUnprocessableEntity},
		{"missing guests", map[string]any{"listing_id": "villa", "check_in": "2026-03-05", "check_out": "2026-03-07"}, http.StatusBadRequest},
		{"unknown listing", map[string]any{"listing_id": "ghost", "check_in": "2026-03-05", "check_out": "2026-03-07", "guests": 1}, http.StatusNotFound},
		{"missing dates", map[string]any{"listing_id": "villa", "guests": 1}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := app.do(t, http.MethodPost, "/api/v1/bookings", tc.body, nil)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}
	assert.Empty(t, app.outbox.Delivered())
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/livez", nil, nil).Code)
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/readyz", nil, nil).Code)

	app.do(t, http.MethodPost, "/api/v1/listings/villa/selection", map[string]string{"date": "2026-03-05"}, nil)
	rec := app.do(t, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `homestay_test_calendar_clicks_total{outcome="check_in_set"} 1`)

	rec = app.do(t, http.MethodGet, "/livez", nil, map[string]string{obs.RequestIDHeader: "rid-1"})
	assert.Equal(t, "rid-1", rec.Header().Get(obs.RequestIDHeader))
}
