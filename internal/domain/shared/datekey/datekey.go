package datekey

import (
	"errors"
	"math"
	"time"
)

const Layout = "2006-01-02"

var ErrInvalidKey = errors.New("datekey: expected YYYY-MM-DD")

// Key is a calendar date in canonical YYYY-MM-DD form. The zero value means "unset".
// Keys compare chronologically with plain string comparison because the format is zero-padded.
type Key string

// FromTime extracts year/month/day in t's own location. It never goes through UTC, so a user
// west of UTC sees the same day boundaries they see on their wall clock.
func FromTime(t time.Time) Key {
	return FromDate(t.Year(), t.Month(), t.Day())
}

// FromDate normalizes overflowing components the way time.Date does (day 0 is the last day of
// the previous month).
func FromDate(year int, month time.Month, day int) Key {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Key(d.Format(Layout))
}

// Today returns the key for now as observed in loc. A nil loc means time.Local.
func Today(now time.Time, loc *time.Location) Key {
	if loc == nil {
		loc = time.Local
	}
	return FromTime(now.In(loc))
}

func Parse(raw string) (Key, error) {
	t, err := time.Parse(Layout, raw)
	if err != nil {
		return "", ErrInvalidKey
	}
	k := Key(t.Format(Layout))
	if string(k) != raw {
		return "", ErrInvalidKey
	}
	return k, nil
}

// ParseOptional treats blank input as unset and anything unparseable as unset too.
func ParseOptional(raw string) Key {
	if raw == "" {
		return ""
	}
	k, err := Parse(raw)
	if err != nil {
		return ""
	}
	return k
}

func (k Key) IsZero() bool { return k == "" }

func (k Key) String() string { return string(k) }

// Time is UTC midnight of the key, the same value a bare date string parses to.
func (k Key) Time() time.Time {
	t, err := time.Parse(Layout, string(k))
	if err != nil {
		return time.Time{}
	}
	return t
}

func (k Key) AddDays(n int) Key {
	t := k.Time()
	if t.IsZero() {
		return ""
	}
	return Key(t.AddDate(0, 0, n).Format(Layout))
}

func (k Key) Before(other Key) bool { return k < other }

func (k Key) After(other Key) bool { return k > other }

// DaysBetween is ceil((to - from) / 24h) on UTC-midnight values; unset keys yield 0.
func DaysBetween(from, to Key) int {
	if from.IsZero() || to.IsZero() {
		return 0
	}
	f, t := from.Time(), to.Time()
	if f.IsZero() || t.IsZero() {
		return 0
	}
	return int(math.Ceil(t.Sub(f).Hours() / 24))
}
