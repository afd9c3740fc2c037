package policies

import (
	"context"
	"time"

	"homestay/internal/domain/availability"
	"homestay/internal/domain/listings"
	"homestay/internal/domain/pricing"
	"homestay/internal/domain/settings"
	"homestay/internal/domain/shared/datekey"
)

// ListingReader returns listings.ErrNotFound for unknown ids.
type ListingReader interface {
	Listing(ctx context.Context, id listings.ListingID) (*listings.Listing, error)
}

type SettingsReader interface {
	SiteSettings(ctx context.Context) (settings.SiteSettings, error)
}

// Clock decides what "today" is for past-date checks.
type Clock interface {
	Now() time.Time
	Today() datekey.Key
}

type ClickObserver interface {
	ObserveClick(outcome availability.ClickOutcome)
}

type QuoteObserver interface {
	ObserveQuote(paymentType pricing.PaymentType, submittable bool)
}
