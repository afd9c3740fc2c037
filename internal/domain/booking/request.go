package booking

import (
	"errors"
	"strings"
	"time"

	"homestay/internal/domain/listings"
	"homestay/internal/domain/pricing"
	"homestay/internal/domain/shared/datekey"
	"homestay/internal/domain/shared/daterange"
	"homestay/internal/domain/shared/events"
)

var (
	ErrCheckInInPast  = errors.New("booking: check-in date is in the past")
	ErrGuestsInvalid  = errors.New("booking: guests must be at least 1")
	ErrMessageLength  = errors.New("booking: message is too long")
	ErrTooManyGuests  = errors.New("booking: guests exceed the listing limit")
	ErrNotSubmittable = errors.New("booking: selection cannot be submitted")
)

const MaxMessageLength = 2000

type RequestID string

// Payload is the body handed to the external booking API.
type Payload struct {
	ListingID string      `json:"listing_id"`
	CheckIn   datekey.Key `json:"check_in"`
	CheckOut  datekey.Key `json:"check_out"`
	Guests    int         `json:"guests"`
	Message   string      `json:"message,omitempty"`
}

// Request is a priced, validated selection that is ready to leave the engine.
type Request struct {
	ID          RequestID
	ListingID   listings.ListingID
	Range       daterange.DateRange
	Guests      int
	Message     string
	Currency    string
	PaymentType pricing.PaymentType
	Pricing     pricing.Result
	CreatedAt   time.Time
	events.EventRecorder
}

type CreateParams struct {
	ID          RequestID
	ListingID   listings.ListingID
	Range       daterange.DateRange
	Guests      int
	Message     string
	Currency    string
	PaymentType pricing.PaymentType
	Pricing     pricing.Result
	Today       datekey.Key
	CreatedAt   time.Time
}

func ValidateDateRange(dr daterange.DateRange, today datekey.Key) error {
	if err := dr.Validate(); err != nil {
		return err
	}
	if dr.CheckIn.Before(today) {
		return ErrCheckInInPast
	}
	return nil
}

func NewRequest(p CreateParams) (*Request, error) {
	if err := ValidateDateRange(p.Range, p.Today); err != nil {
		return nil, err
	}
	if p.Guests < 1 {
		return nil, ErrGuestsInvalid
	}
	msg := strings.TrimSpace(p.Message)
	if len([]rune(msg)) > MaxMessageLength {
		return nil, ErrMessageLength
	}
	r := &Request{
		ID:          p.ID,
		ListingID:   p.ListingID,
		Range:       p.Range,
		Guests:      p.Guests,
		Message:     msg,
		Currency:    p.Currency,
		PaymentType: p.PaymentType,
		Pricing:     p.Pricing,
		CreatedAt:   p.CreatedAt.UTC(),
	}
	r.Record(BookingRequested{
		RequestID:    string(r.ID),
		Payload:      r.Payload(),
		PaymentType:  r.PaymentType,
		Currency:     r.Currency,
		Total:        r.Pricing.Total,
		PayNowAmount: r.Pricing.PayNowAmount,
		At:           r.CreatedAt,
	})
	return r, nil
}

func (r *Request) Payload() Payload {
	return Payload{
		ListingID: string(r.ListingID),
		CheckIn:   r.Range.CheckIn,
		CheckOut:  r.Range.CheckOut,
		Guests:    r.Guests,
		Message:   r.Message,
	}
}

// BookingRequested carries everything the booking and payment-initiation services need.
type BookingRequested struct {
	RequestID    string              `json:"request_id"`
	Payload      Payload             `json:"payload"`
	PaymentType  pricing.PaymentType `json:"payment_type"`
	Currency     string              `json:"currency"`
	Total        float64             `json:"total"`
	PayNowAmount float64             `json:"pay_now_amount"`
	At           time.Time           `json:"at"`
}

func (e BookingRequested) EventName() string     { return "booking.requested" }
func (e BookingRequested) AggregateID() string   { return e.Payload.ListingID }
func (e BookingRequested) OccurredAt() time.Time { return e.At }
