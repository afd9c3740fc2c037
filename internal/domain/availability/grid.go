package availability

import (
	"errors"
	"time"

	"homestay/internal/domain/shared/datekey"
)

// GridSize is six full weeks; every month view has exactly this many cells.
const GridSize = 42

type Cell struct {
	Date           datekey.Key `json:"date"`
	IsCurrentMonth bool        `json:"is_current_month"`
}

type Grid [GridSize]Cell

// Month is the displayed calendar page.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

func MonthOf(k datekey.Key) Month {
	t := k.Time()
	return Month{Year: t.Year(), Month: t.Month()}
}

// Navigate moves by whole months. Only the sign of direction is used.
func (m Month) Navigate(direction int) Month {
	step := 0
	switch {
	case direction > 0:
		step = 1
	case direction < 0:
		step = -1
	}
	t := time.Date(m.Year, m.Month+time.Month(step), 1, 0, 0, 0, 0, time.UTC)
	return Month{Year: t.Year(), Month: t.Month()}
}

// String renders the month as YYYY-MM.
func (m Month) String() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

var ErrInvalidMonth = errors.New("availability: month must be YYYY-MM")

// ParseMonth reads a YYYY-MM cursor.
func ParseMonth(raw string) (Month, error) {
	t, err := time.Parse("2006-01", raw)
	if err != nil {
		return Month{}, ErrInvalidMonth
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// BuildMonthGrid pads the first row back to Sunday with days of the previous month and fills the
// tail with days of the next month until there are 42 cells.
func BuildMonthGrid(year int, month time.Month) Grid {
	var g Grid
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	startPad := int(first.Weekday())
	days := DaysIn(year, month)

	// Noon keeps the date stable in zones that switch DST at midnight.
	i := 0
	for d := 1 - startPad; d <= 0; d++ {
		g[i] = Cell{Date: datekey.FromTime(time.Date(year, month, d, 12, 0, 0, 0, time.Local))}
		i++
	}
	for d := 1; d <= days; d++ {
		g[i] = Cell{Date: datekey.FromTime(time.Date(year, month, d, 12, 0, 0, 0, time.Local)), IsCurrentMonth: true}
		i++
	}
	for d := 1; i < GridSize; d++ {
		g[i] = Cell{Date: datekey.FromTime(time.Date(year, month+1, d, 12, 0, 0, 0, time.Local))}
		i++
	}
	return g
}

// CellView is a cell with the flags the widget renders.
type CellView struct {
	Cell
	IsPast     bool `json:"is_past"`
	IsBlocked  bool `json:"is_blocked"`
	Disabled   bool `json:"disabled"`
	IsCheckIn  bool `json:"is_check_in"`
	IsCheckOut bool `json:"is_check_out"`
	InRange    bool `json:"in_range"`
}

// Render derives per-cell flags; nothing is stored between calls.
func Render(g Grid, blocked BlockedSet, sel Selection, today datekey.Key) [GridSize]CellView {
	var out [GridSize]CellView
	for i, c := range g {
		out[i] = viewOf(c, blocked, sel, today)
	}
	return out
}

func viewOf(c Cell, blocked BlockedSet, sel Selection, today datekey.Key) CellView {
	v := CellView{Cell: c}
	v.IsBlocked = blocked.Has(c.Date)
	v.IsPast = c.Date.Before(today)
	v.Disabled = v.IsPast || v.IsBlocked
	v.IsCheckIn = !sel.CheckIn.IsZero() && c.Date == sel.CheckIn
	v.IsCheckOut = !sel.CheckOut.IsZero() && c.Date == sel.CheckOut
	v.InRange = !sel.CheckIn.IsZero() && !sel.CheckOut.IsZero() &&
		c.Date.After(sel.CheckIn) && c.Date.Before(sel.CheckOut)
	return v
}
