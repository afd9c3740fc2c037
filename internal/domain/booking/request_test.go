package booking

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homestay/internal/domain/pricing"
	"homestay/internal/domain/shared/daterange"
)

func params() CreateParams {
	return CreateParams{
		ID:          "req-1",
		ListingID:   "listing-1",
		Range:       daterange.DateRange{CheckIn: "2026-02-10", CheckOut: "2026-02-13"},
		Guests:      2,
		Message:     "  arriving late  ",
		Currency:    "INR",
		PaymentType: pricing.PaymentPartial,
		Pricing:     pricing.Result{Subtotal: 7500, Total: 7500, PayNowAmount: 3000, PayNowPercent: 40},
		Today:       "2026-02-01",
		CreatedAt:   time.Date(2026, time.February, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestNewRequestRecordsEvent(t *testing.T) {
	t.Parallel()

	r, err := NewRequest(params())
	require.NoError(t, err)

	assert.Equal(t, Payload{ListingID: "listing-1", CheckIn: "2026-02-10", CheckOut: "2026-02-13", Guests: 2, Message: "arriving late"}, r.Payload())

	evs := r.Drain()
	require.Len(t, evs, 1)
	ev, ok := evs[0].(BookingRequested)
	require.True(t, ok)
	assert.Equal(t, "booking.requested", ev.EventName())
	assert.Equal(t, "listing-1", ev.AggregateID())
	assert.Equal(t, 3000.0, ev.PayNowAmount)
	assert.Equal(t, pricing.PaymentPartial, ev.PaymentType)
}

func TestNewRequestValidation(t *testing.T) {
	t.Parallel()

	p := params()
	p.Today = "2026-02-11"
	_, err := NewRequest(p)
	assert.ErrorIs(t, err, ErrCheckInInPast)

	p = params()
	p.Range.CheckOut = p.Range.CheckIn
	_, err = NewRequest(p)
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)

	p = params()
	p.Guests = 0
	_, err = NewRequest(p)
	assert.ErrorIs(t, err, ErrGuestsInvalid)

	p = params()
	p.Message = strings.Repeat("x", MaxMessageLength+1)
	_, err = NewRequest(p)
	assert.ErrorIs(t, err, ErrMessageLength)

	p = params()
	p.Today = "2026-02-10"
	_, err = NewRequest(p)
	assert.NoError(t, err, "check-in today is allowed")
}
