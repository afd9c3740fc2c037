package dto

import (
	"homestay/internal/domain/availability"
	"homestay/internal/domain/pricing"
	"homestay/internal/domain/settings"
	"homestay/internal/domain/shared/money"
)

const BlockedDatesWarning = "Some dates in your selection are unavailable. Please choose different dates."

type PartialPaymentOptions struct {
	Enabled        bool    `json:"enabled"`
	DefaultPercent float64 `json:"default_percent"`
	MinPercent     float64 `json:"min_percent"`
}

func MapPartialPayment(p settings.PartialPayment) PartialPaymentOptions {
	return PartialPaymentOptions{
		Enabled:        p.Enabled,
		DefaultPercent: money.Float(p.DefaultPercent),
		MinPercent:     money.Float(p.MinPercent),
	}
}

// Quote is the price panel under the calendar.
type Quote struct {
	ListingID      string                `json:"listing_id"`
	Currency       string                `json:"currency"`
	NightlyRate    float64               `json:"nightly_rate"`
	Selection      Selection             `json:"selection"`
	Gate           availability.Gate     `json:"gate"`
	PaymentType    pricing.PaymentType   `json:"payment_type"`
	PartialPayment PartialPaymentOptions `json:"partial_payment"`
	Pricing        pricing.Result        `json:"pricing"`
	Warning        string                `json:"warning,omitempty"`
}
