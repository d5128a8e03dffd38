// Package calendar builds the month view of the booking desk.
//
// The grid itself is date math only.  Overlays (who stays on a day,
// arrivals, departures, how bad the day looks) are a separate step fed by
// the caller's snapshot and classifier output, so the grid can be reused
// without any conflict logic.
package calendar

import (
	"fmt"
	"time"
)

// GridSize is the number of cells in a month view: six full weeks.
const GridSize = 42

// Cell is one day of the month view.
type Cell struct {
	Date           string `json:"date"`
	Day            int    `json:"day"`
	IsCurrentMonth bool   `json:"is_current_month"`
}

// MonthDays returns the 42 cells of the month view for year and the
// 1-based month.  The grid always starts on a Sunday: days of the previous
// month pad the first week and days of the following month fill the
// remainder.  Months outside 1..12 are normalized the way time.Date does.
func MonthDays(year, month int) []Cell {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -int(first.Weekday()))

	cells := make([]Cell, 0, GridSize)
	for d := start; len(cells) < GridSize; d = d.AddDate(0, 0, 1) {
		cells = append(cells, Cell{
			Date:           d.Format("2006-01-02"),
			Day:            d.Day(),
			IsCurrentMonth: d.Month() == first.Month() && d.Year() == first.Year(),
		})
	}
	return cells
}

// Shift moves a year/month pair by delta months, wrapping across years.
func Shift(year, month, delta int) (int, int) {
	t := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	return t.Year(), int(t.Month())
}

// ParseMonth validates a year/month pair coming from a request.
func ParseMonth(year, month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("calendar: month %d out of range", month)
	}
	if year < 1 || year > 9999 {
		return fmt.Errorf("calendar: year %d out of range", year)
	}
	return nil
}
