package calendar

import (
	"context"

	"homestay/internal/app/dto"
	"homestay/internal/app/handlers/support"
	"homestay/internal/app/policies"
	"homestay/internal/app/queries"
	"homestay/internal/domain/availability"
	"homestay/internal/domain/shared/datekey"
)

const selectDateKey = "calendar.select"

// SelectDateQuery applies one click to a selection the caller holds. Nothing is stored.
type SelectDateQuery struct {
	ListingID string
	CheckIn   string
	CheckOut  string
	Date      string
}

func (SelectDateQuery) Key() string { return selectDateKey }

func (q SelectDateQuery) Validate() error {
	return support.RequireListingID(q.ListingID)
}

type SelectDateHandler struct {
	Listings     policies.ListingReader
	Availability availability.Repository
	Clock        policies.Clock
	Observer     policies.ClickObserver
}

func (h *SelectDateHandler) Handle(ctx context.Context, q SelectDateQuery) (dto.ClickResult, error) {
	listing, err := support.LoadListing(ctx, h.Listings, q.ListingID)
	if err != nil {
		return dto.ClickResult{}, err
	}
	blocked, err := support.LoadBlocked(ctx, h.Availability, listing.ID)
	if err != nil {
		return dto.ClickResult{}, err
	}

	selector := availability.Selector{Blocked: blocked, Today: h.Clock.Today()}
	current := availability.SelectionFromInput(q.CheckIn, q.CheckOut)
	next, outcome := selector.Click(current, datekey.ParseOptional(q.Date))
	if h.Observer != nil {
		h.Observer.ObserveClick(outcome)
	}
	return dto.ClickResult{
		ListingID: string(listing.ID),
		Outcome:   outcome,
		Selection: dto.MapSelection(next),
		Gate:      availability.Evaluate(next, blocked),
	}, nil
}

var _ queries.Handler[SelectDateQuery, dto.ClickResult] = (*SelectDateHandler)(nil)
