package availability

import (
	"time"

	"homestay/internal/domain/listings"
	"homestay/internal/domain/shared/daterange"
)

type CalendarBlocked struct {
	ListingID string              `json:"listing_id"`
	Range     daterange.DateRange `json:"range"`
	Reason    BlockReason         `json:"reason"`
	At        time.Time           `json:"at"`
}

func (e CalendarBlocked) EventName() string     { return "calendar.blocked" }
func (e CalendarBlocked) AggregateID() string   { return e.ListingID }
func (e CalendarBlocked) OccurredAt() time.Time { return e.At }

func CalendarBlockedEvent(id listings.ListingID, r daterange.DateRange, reason BlockReason, at time.Time) CalendarBlocked {
	return CalendarBlocked{ListingID: string(id), Range: r, Reason: reason, At: at}
}
