package dto

import (
	"time"

	"homestay/internal/domain/booking"
	"homestay/internal/domain/pricing"
)

type BookingSubmission struct {
	RequestID   string              `json:"request_id"`
	Payload     booking.Payload     `json:"payload"`
	Currency    string              `json:"currency"`
	PaymentType pricing.PaymentType `json:"payment_type"`
	Pricing     pricing.Result      `json:"pricing"`
	CreatedAt   time.Time           `json:"created_at"`
}

func MapBookingRequest(r *booking.Request) BookingSubmission {
	return BookingSubmission{
		RequestID:   string(r.ID),
		Payload:     r.Payload(),
		Currency:    r.Currency,
		PaymentType: r.PaymentType,
		Pricing:     r.Pricing,
		CreatedAt:   r.CreatedAt,
	}
}
