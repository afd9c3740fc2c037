package settings

import (
	"github.com/shopspring/decimal"

	"homestay/internal/domain/pricing"
	"homestay/internal/domain/shared/money"
)

// PartialPayment is the admin configuration behind the "pay part now" toggle.
type PartialPayment struct {
	Enabled        bool
	DefaultPercent decimal.Decimal
	MinPercent     decimal.Decimal
}

// SiteSettings holds the platform-wide pricing knobs the booking widget reads.
type SiteSettings struct {
	Fee            *pricing.FeePolicy
	PartialPayment PartialPayment
}

// Raw is the storage shape; numbers may arrive as strings.
type Raw struct {
	Fee            *pricing.RawFeePolicy `toml:"fee" json:"fee" bson:"fee"`
	PartialPayment RawPartialPayment     `toml:"partial_payment" json:"partial_payment" bson:"partial_payment"`
}

type RawPartialPayment struct {
	Enabled        bool `toml:"enabled" json:"enabled" bson:"enabled"`
	DefaultPercent any  `toml:"default_percent" json:"default_percent" bson:"default_percent"`
	MinPercent     any  `toml:"min_percent" json:"min_percent" bson:"min_percent"`
}

func (r Raw) Normalize() SiteSettings {
	s := SiteSettings{
		PartialPayment: PartialPayment{
			Enabled:        r.PartialPayment.Enabled,
			DefaultPercent: money.CoerceNonNegative(r.PartialPayment.DefaultPercent),
			MinPercent:     money.CoerceNonNegative(r.PartialPayment.MinPercent),
		},
	}
	if r.Fee != nil {
		s.Fee = r.Fee.Normalize()
	}
	if s.PartialPayment.DefaultPercent.LessThan(s.PartialPayment.MinPercent) {
		s.PartialPayment.DefaultPercent = s.PartialPayment.MinPercent
	}
	return s
}

// PaymentPolicy turns the guest's toggle and slider into a policy. Partial requests fall back to
// full payment when the site has partial payment switched off; a missing percent uses the
// configured default.
func (s SiteSettings) PaymentPolicy(paymentType string, percent any) pricing.PartialPaymentPolicy {
	p := pricing.PartialPaymentPolicy{
		PaymentType:       pricing.ParsePaymentType(paymentType),
		PartialMinPercent: s.PartialPayment.MinPercent,
		PartialPercent:    s.PartialPayment.DefaultPercent,
	}
	if p.IsPartial() && !s.PartialPayment.Enabled {
		p.PaymentType = pricing.PaymentFull
	}
	if !isBlank(percent) {
		p.PartialPercent = money.Coerce(percent)
	}
	return p
}

func isBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	default:
		return false
	}
}
