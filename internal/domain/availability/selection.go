package availability

import (
	"homestay/internal/domain/shared/datekey"
	"homestay/internal/domain/shared/daterange"
)

type SelectionState string

const (
	NoSelection SelectionState = "no_selection"
	CheckInOnly SelectionState = "check_in_only"
	FullRange   SelectionState = "full_range"
)

// ClickOutcome says what a click did; callers use it for metrics, the widget ignores it.
type ClickOutcome string

const (
	ClickIgnoredDisabled ClickOutcome = "ignored_disabled"
	ClickRejectedBlocked ClickOutcome = "rejected_blocked_range"
	ClickCheckInSet      ClickOutcome = "check_in_set"
	ClickCheckOutSet     ClickOutcome = "check_out_set"
)

// Selection is the guest's current pick. Either endpoint may be empty.
type Selection struct {
	CheckIn  datekey.Key `json:"check_in"`
	CheckOut datekey.Key `json:"check_out"`
}

// SelectionFromInput builds a selection from typed date inputs. It skips the click-time blocked
// scan, so the result must go through Evaluate before submission.
func SelectionFromInput(checkIn, checkOut string) Selection {
	return Selection{CheckIn: datekey.ParseOptional(checkIn), CheckOut: datekey.ParseOptional(checkOut)}
}

func (s Selection) State() SelectionState {
	switch {
	case s.CheckIn.IsZero():
		return NoSelection
	case s.CheckOut.IsZero():
		return CheckInOnly
	default:
		return FullRange
	}
}

func (s Selection) Range() daterange.DateRange {
	return daterange.DateRange{CheckIn: s.CheckIn, CheckOut: s.CheckOut}
}

// Nights is zero unless check-out is strictly after check-in.
func (s Selection) Nights() int {
	return s.Range().Nights()
}

// Selector runs the two-click protocol against a fixed blocked set and "today".
type Selector struct {
	Blocked BlockedSet
	Today   datekey.Key
}

func (s Selector) Disabled(d datekey.Key) bool {
	return d.Before(s.Today) || s.Blocked.Has(d)
}

// Click applies one calendar click. Invalid clicks return the selection unchanged; once a full
// range is selected, any valid click restarts the selection at the clicked date.
func (s Selector) Click(sel Selection, date datekey.Key) (Selection, ClickOutcome) {
	if date.IsZero() || s.Disabled(date) {
		return sel, ClickIgnoredDisabled
	}
	switch sel.State() {
	case NoSelection, FullRange:
		return Selection{CheckIn: date}, ClickCheckInSet
	}
	if !date.After(sel.CheckIn) {
		return Selection{CheckIn: date}, ClickCheckInSet
	}
	if s.Blocked.AnyIn(sel.CheckIn, date) {
		return sel, ClickRejectedBlocked
	}
	return Selection{CheckIn: sel.CheckIn, CheckOut: date}, ClickCheckOutSet
}

// RangeHasBlocked checks [check-in, check-out) once both endpoints are set.
func RangeHasBlocked(sel Selection, blocked BlockedSet) bool {
	if sel.State() != FullRange {
		return false
	}
	return blocked.AnyIn(sel.CheckIn, sel.CheckOut)
}

const (
	ReasonIncomplete     = "select check-in and check-out dates"
	ReasonNoNights       = "check-out must be after check-in"
	ReasonBlockedInRange = "selected dates include unavailable nights"
)

// Gate is the submission check the widget re-evaluates on every change.
type Gate struct {
	Nights          int    `json:"nights"`
	Submittable     bool   `json:"submittable"`
	HasBlockedDates bool   `json:"has_blocked_dates"`
	Reason          string `json:"reason,omitempty"`
}

func Evaluate(sel Selection, blocked BlockedSet) Gate {
	g := Gate{Nights: sel.Nights(), HasBlockedDates: RangeHasBlocked(sel, blocked)}
	switch {
	case sel.CheckIn.IsZero() || sel.CheckOut.IsZero():
		g.Reason = ReasonIncomplete
	case g.Nights <= 0:
		g.Reason = ReasonNoNights
	case g.HasBlockedDates:
		g.Reason = ReasonBlockedInRange
	default:
		g.Submittable = true
	}
	return g
}
