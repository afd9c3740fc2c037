package calendar

import (
	"context"
	"strings"

	"homestay/internal/app/dto"
	"homestay/internal/app/handlers/support"
	"homestay/internal/app/policies"
	"homestay/internal/app/queries"
	"homestay/internal/domain/availability"
)

const getMonthKey = "calendar.month"

// GetMonthQuery renders one month page. An empty Month means the month containing today; Step
// moves the cursor by one month in its direction.
type GetMonthQuery struct {
	ListingID string
	Month     string
	Step      int
	CheckIn   string
	CheckOut  string
}

func (GetMonthQuery) Key() string { return getMonthKey }

func (q GetMonthQuery) Validate() error {
	if err := support.RequireListingID(q.ListingID); err != nil {
		return err
	}
	if m := strings.TrimSpace(q.Month); m != "" {
		if _, err := availability.ParseMonth(m); err != nil {
			return support.Invalid("month", "must be YYYY-MM")
		}
	}
	return nil
}

type GetMonthHandler struct {
	Listings     policies.ListingReader
	Availability availability.Repository
	Clock        policies.Clock
}

func (h *GetMonthHandler) Handle(ctx context.Context, q GetMonthQuery) (dto.MonthView, error) {
	listing, err := support.LoadListing(ctx, h.Listings, q.ListingID)
	if err != nil {
		return dto.MonthView{}, err
	}
	blocked, err := support.LoadBlocked(ctx, h.Availability, listing.ID)
	if err != nil {
		return dto.MonthView{}, err
	}

	today := h.Clock.Today()
	month := availability.MonthOf(today)
	if raw := strings.TrimSpace(q.Month); raw != "" {
		month, err = availability.ParseMonth(raw)
		if err != nil {
			return dto.MonthView{}, support.Invalid("month", "must be YYYY-MM")
		}
	}
	month = month.Navigate(q.Step)

	sel := availability.SelectionFromInput(q.CheckIn, q.CheckOut)
	grid := availability.BuildMonthGrid(month.Year, month.Month)
	cells := availability.Render(grid, blocked, sel, today)
	return dto.MapMonth(string(listing.ID), month, cells, sel, availability.Evaluate(sel, blocked), today), nil
}

var _ queries.Handler[GetMonthQuery, dto.MonthView] = (*GetMonthHandler)(nil)
