package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"homestay/internal/domain/shared/money"
)

type FeeType string

const (
	ServiceCharge FeeType = "service_charge"
	Discount      FeeType = "discount"
)

type FeeKind string

const (
	KindPercent FeeKind = "percent"
	KindFixed   FeeKind = "fixed"
)

type FeeAudience string

const (
	AppliesToGuest FeeAudience = "guest"
	AppliesToHost  FeeAudience = "host"
)

// FeePolicy is the platform-wide service charge or discount. A nil policy means neither.
type FeePolicy struct {
	Type      FeeType         `json:"type"`
	Kind      FeeKind         `json:"kind"`
	Value     decimal.Decimal `json:"value"`
	AppliesTo FeeAudience     `json:"applies_to,omitempty"`
}

// RawFeePolicy is the loosely typed shape stored in site settings.
type RawFeePolicy struct {
	Type      string `json:"type" toml:"type" bson:"type"`
	Kind      string `json:"kind" toml:"kind" bson:"kind"`
	Value     any    `json:"value" toml:"value" bson:"value"`
	AppliesTo string `json:"applies_to" toml:"applies_to" bson:"applies_to"`
}

// Normalize returns nil for unknown types or kinds so a bad setting degrades to "no fee".
func (r RawFeePolicy) Normalize() *FeePolicy {
	p := FeePolicy{
		Type:      FeeType(strings.ToLower(strings.TrimSpace(r.Type))),
		Kind:      FeeKind(strings.ToLower(strings.TrimSpace(r.Kind))),
		Value:     money.CoerceNonNegative(r.Value),
		AppliesTo: FeeAudience(strings.ToLower(strings.TrimSpace(r.AppliesTo))),
	}
	switch p.Type {
	case ServiceCharge, Discount:
	default:
		return nil
	}
	switch p.Kind {
	case KindPercent, KindFixed:
	default:
		return nil
	}
	if p.AppliesTo != AppliesToHost {
		p.AppliesTo = AppliesToGuest
	}
	return &p
}

type PaymentType string

const (
	PaymentFull    PaymentType = "full"
	PaymentPartial PaymentType = "partial"
)

func ParsePaymentType(raw string) PaymentType {
	if PaymentType(strings.ToLower(strings.TrimSpace(raw))) == PaymentPartial {
		return PaymentPartial
	}
	return PaymentFull
}

// PartialPaymentPolicy combines the admin-configured minimum with the guest's chosen percent.
type PartialPaymentPolicy struct {
	PaymentType       PaymentType     `json:"payment_type"`
	PartialPercent    decimal.Decimal `json:"partial_percent"`
	PartialMinPercent decimal.Decimal `json:"partial_min_percent"`
}

func (p PartialPaymentPolicy) IsPartial() bool {
	return p.PaymentType == PaymentPartial
}

var maxPartialPercent = decimal.NewFromInt(99)

// EffectivePercent clamps the requested percent to [PartialMinPercent, 99].
func (p PartialPaymentPolicy) EffectivePercent() decimal.Decimal {
	return decimal.Min(maxPartialPercent, decimal.Max(p.PartialMinPercent, p.PartialPercent))
}
