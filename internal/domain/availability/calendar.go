package availability

import (
	"context"
	"errors"
	"time"

	"homestay/internal/domain/listings"
	"homestay/internal/domain/shared/datekey"
	"homestay/internal/domain/shared/daterange"
	"homestay/internal/domain/shared/events"
)

var ErrOverlappingRange = errors.New("availability: range overlaps with an existing block")

type BlockReason string

const (
	ReasonBooking   BlockReason = "BOOKING"
	ReasonHostBlock BlockReason = "HOST_BLOCK"
	ReasonCleaning  BlockReason = "CLEANING_BUFFER"
)

type Block struct {
	Range     daterange.DateRange
	Reason    BlockReason
	Reference string
	CreatedAt time.Time
}

// Calendar is a listing's unavailable nights: ranged blocks plus loose dates imported from the
// "blocked dates" feed.
type Calendar struct {
	ListingID  listings.ListingID
	Blocks     []Block
	ExtraDates []datekey.Key
	Version    int64
	events.EventRecorder
}

type Repository interface {
	Calendar(ctx context.Context, id listings.ListingID) (*Calendar, error)
	Save(ctx context.Context, calendar *Calendar) error
}

func NewCalendar(id listings.ListingID) *Calendar {
	return &Calendar{ListingID: id}
}

func (c *Calendar) CanReserve(r daterange.DateRange) bool {
	for _, block := range c.Blocks {
		if block.Range.Overlaps(r) {
			return false
		}
	}
	for _, d := range c.ExtraDates {
		if r.ContainsDate(d) {
			return false
		}
	}
	return true
}

func (c *Calendar) BlockRange(r daterange.DateRange, reason BlockReason, reference string, now time.Time) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if reason == "" {
		reason = ReasonHostBlock
	}
	if !c.CanReserve(r) {
		return ErrOverlappingRange
	}
	c.Blocks = append(c.Blocks, Block{Range: r, Reason: reason, Reference: reference, CreatedAt: now.UTC()})
	c.Record(CalendarBlockedEvent(c.ListingID, r, reason, now))
	return nil
}

// BlockedSet flattens blocks and loose dates into one lookup for a computation pass.
func (c *Calendar) BlockedSet() BlockedSet {
	if c == nil {
		return BlockedSet{}
	}
	keys := append([]datekey.Key(nil), c.ExtraDates...)
	for _, b := range c.Blocks {
		keys = append(keys, b.Range.Days()...)
	}
	return blockedSetFromKeys(keys)
}
