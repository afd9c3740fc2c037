package dto

import (
	"homestay/internal/domain/availability"
	"homestay/internal/domain/shared/datekey"
)

type Selection struct {
	CheckIn  datekey.Key                 `json:"check_in,omitempty"`
	CheckOut datekey.Key                 `json:"check_out,omitempty"`
	State    availability.SelectionState `json:"state"`
	Nights   int                         `json:"nights"`
}

func MapSelection(sel availability.Selection) Selection {
	return Selection{
		CheckIn:  sel.CheckIn,
		CheckOut: sel.CheckOut,
		State:    sel.State(),
		Nights:   sel.Nights(),
	}
}

// MonthView is one rendered calendar page for a listing.
type MonthView struct {
	ListingID string                  `json:"listing_id"`
	Month     string                  `json:"month"`
	PrevMonth string                  `json:"prev_month"`
	NextMonth string                  `json:"next_month"`
	Today     datekey.Key             `json:"today"`
	Cells     []availability.CellView `json:"cells"`
	Selection Selection               `json:"selection"`
	Gate      availability.Gate       `json:"gate"`
}

func MapMonth(listingID string, m availability.Month, cells [availability.GridSize]availability.CellView, sel availability.Selection, gate availability.Gate, today datekey.Key) MonthView {
	return MonthView{
		ListingID: listingID,
		Month:     m.String(),
		PrevMonth: m.Navigate(-1).String(),
		NextMonth: m.Navigate(1).String(),
		Today:     today,
		Cells:     cells[:],
		Selection: MapSelection(sel),
		Gate:      gate,
	}
}

// ClickResult is the selection after one click. The caller keeps it and sends it back next time.
type ClickResult struct {
	ListingID string                    `json:"listing_id"`
	Outcome   availability.ClickOutcome `json:"outcome"`
	Selection Selection                 `json:"selection"`
	Gate      availability.Gate         `json:"gate"`
}
