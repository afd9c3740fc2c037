package pricing

import (
	"github.com/shopspring/decimal"

	"homestay/internal/domain/shared/money"
)

const (
	labelDiscount   = "Discount"
	labelServiceFee = "Service fee"
)

// Result is what the booking widget displays. Money is rounded to 2 places and Total is never
// negative.
type Result struct {
	Subtotal      float64 `json:"subtotal"`
	FeeAmount     float64 `json:"fee_amount"`
	FeeLabel      string  `json:"fee_label"`
	Total         float64 `json:"total"`
	PayNowAmount  float64 `json:"pay_now_amount"`
	PayNowPercent float64 `json:"pay_now_percent"`
}

// Compute prices a stay. Discounts never combine with partial payment, and a host-borne service
// charge is invisible in the guest total.
func Compute(nights int, nightlyRate decimal.Decimal, fee *FeePolicy, partial PartialPaymentPolicy) Result {
	if nights < 0 {
		nights = 0
	}
	subtotal := nightlyRate.Mul(decimal.NewFromInt(int64(nights)))

	feeAmount, label := feeFor(subtotal, fee, partial)
	total := decimal.Max(decimal.Zero, money.Round2(subtotal.Add(feeAmount)))

	payNow := total
	if partial.IsPartial() {
		payNow = money.Round2(money.Percent(subtotal, partial.EffectivePercent()))
	}

	payNowPercent := partial.PartialPercent
	if nights > 0 && subtotal.IsPositive() {
		payNowPercent = money.RoundWhole(money.Ratio(payNow, subtotal))
	}

	return Result{
		Subtotal:      money.Float(money.Round2(subtotal)),
		FeeAmount:     money.Float(feeAmount),
		FeeLabel:      label,
		Total:         money.Float(total),
		PayNowAmount:  money.Float(payNow),
		PayNowPercent: money.Float(payNowPercent),
	}
}

func feeFor(subtotal decimal.Decimal, fee *FeePolicy, partial PartialPaymentPolicy) (decimal.Decimal, string) {
	if partial.IsPartial() || fee == nil || !fee.Value.IsPositive() {
		return decimal.Zero, ""
	}
	raw := fee.Value
	if fee.Kind == KindPercent {
		raw = money.Percent(subtotal, fee.Value)
	}
	rounded := money.Round2(raw)

	switch {
	case fee.Type == Discount:
		return rounded.Neg(), withPercent(labelDiscount, fee)
	case fee.Type == ServiceCharge && fee.AppliesTo == AppliesToHost:
		return decimal.Zero, ""
	case fee.Type == ServiceCharge:
		return rounded, withPercent(labelServiceFee, fee)
	default:
		return decimal.Zero, ""
	}
}

func withPercent(label string, fee *FeePolicy) string {
	if fee.Kind != KindPercent {
		return label
	}
	return label + " (" + fee.Value.String() + "%)"
}
