package policies

import (
	"time"

	"homestay/internal/domain/shared/datekey"
)

// SystemClock reads wall time in the property's time zone.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	return time.Now()
}

func (c SystemClock) Today() datekey.Key {
	return datekey.Today(time.Now(), c.Location)
}

// FixedClock pins "now", used by tests and replays.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }

func (c FixedClock) Today() datekey.Key { return datekey.FromTime(c.At) }
