package money

import (
	"encoding/json"
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCurrency = errors.New("money: invalid currency code")
)

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
)

// Money is a decimal amount tagged with an ISO currency code.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// New constructs a Money value validating minimal invariants.
func New(amount decimal.Decimal, currency string) (Money, error) {
	if len(currency) != 3 {
		return Money{}, ErrInvalidCurrency
	}
	return Money{Amount: amount, Currency: strings.ToUpper(currency)}, nil
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + m.Currency
}

// RoundHalfUp rounds to the given number of places with ties going toward +Inf.
func RoundHalfUp(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Shift(places).Add(half).Floor().Shift(-places)
}

// Round2 is the rounding applied to every monetary amount.
func Round2(d decimal.Decimal) decimal.Decimal {
	return RoundHalfUp(d, 2)
}

// RoundWhole is the rounding applied to displayed percentages.
func RoundWhole(d decimal.Decimal) decimal.Decimal {
	return RoundHalfUp(d, 0)
}

// Percent returns d * p / 100.
func Percent(d, p decimal.Decimal) decimal.Decimal {
	return d.Mul(p).Div(hundred)
}

// Ratio returns part / whole * 100, or zero when whole is zero.
func Ratio(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// Coerce converts loosely typed input into a decimal. Anything that is not a finite number
// becomes zero.
func Coerce(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero
		}
		return *x
	case string:
		return coerceString(x)
	case json.Number:
		return coerceString(x.String())
	case float64:
		return coerceFloat(x)
	case float32:
		return coerceFloat(float64(x))
	case int:
		return decimal.NewFromInt(int64(x))
	case int32:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	default:
		return decimal.Zero
	}
}

// CoerceNonNegative is Coerce with negative results clamped to zero.
func CoerceNonNegative(v any) decimal.Decimal {
	d := Coerce(v)
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Float converts for JSON output; values are already rounded so precision is not lost in practice.
func Float(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func coerceString(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func coerceFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}
