package daterange

import (
	"errors"

	"homestay/internal/domain/shared/datekey"
)

var (
	ErrInvalidRange = errors.New("daterange: checkout must be after checkin")
)

// DateRange represents a half-open interval of nights [CheckIn, CheckOut).
type DateRange struct {
	CheckIn  datekey.Key `json:"check_in"`
	CheckOut datekey.Key `json:"check_out"`
}

func New(checkIn, checkOut datekey.Key) (DateRange, error) {
	dr := DateRange{CheckIn: checkIn, CheckOut: checkOut}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

func (dr DateRange) Validate() error {
	if dr.CheckIn.IsZero() || dr.CheckOut.IsZero() {
		return ErrInvalidRange
	}
	if !dr.CheckOut.After(dr.CheckIn) {
		return ErrInvalidRange
	}
	return nil
}

// Nights is zero for unset or inverted ranges.
func (dr DateRange) Nights() int {
	n := datekey.DaysBetween(dr.CheckIn, dr.CheckOut)
	if n < 0 {
		return 0
	}
	return n
}

func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(dr.CheckOut)
}

func (dr DateRange) ContainsDate(d datekey.Key) bool {
	return !d.Before(dr.CheckIn) && d.Before(dr.CheckOut)
}

// Days lists every night in the range, check-in included and check-out excluded.
func (dr DateRange) Days() []datekey.Key {
	n := dr.Nights()
	out := make([]datekey.Key, 0, n)
	for d := dr.CheckIn; n > 0 && d.Before(dr.CheckOut); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out
}
