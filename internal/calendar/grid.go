// Package calendar builds the Monday-first month grid of the date step.
package calendar

import "time"

// DayCell is one selectable day.
type DayCell struct {
	Date       time.Time `json:"date"`
	Day        int       `json:"day"`
	IsToday    bool      `json:"is_today"`
	IsSelected bool      `json:"is_selected"`
	IsPast     bool      `json:"is_past"`
}

// Grid is a rendered month.
type Grid struct {
	Month         time.Time `json:"month"`
	Days          []DayCell `json:"days"`
	LeadingBlanks int       `json:"leading_blanks"`
}

var weekdayLabels = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// Weekdays returns the header labels in column order.
func Weekdays() []string {
	out := make([]string, len(weekdayLabels))
	copy(out, weekdayLabels)
	return out
}

// Build lays out the month containing reference. Days are midnight in the
// reference's location; today and selected compare by calendar date only.
func Build(reference, today time.Time, selected *time.Time) Grid {
	first := StartOfMonth(reference)
	last := first.AddDate(0, 1, -1)

	grid := Grid{
		Month:         first,
		LeadingBlanks: LeadingBlanks(first.Weekday()),
		Days:          make([]DayCell, 0, last.Day()),
	}
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		grid.Days = append(grid.Days, DayCell{
			Date:       d,
			Day:        d.Day(),
			IsToday:    SameDay(d, today),
			IsSelected: selected != nil && SameDay(d, *selected),
			IsPast:     before(d, today),
		})
	}
	return grid
}

// LeadingBlanks is the number of empty cells before the 1st in a
// Monday-first week: Sunday needs 6, otherwise weekday-1.
func LeadingBlanks(firstWeekday time.Weekday) int {
	if firstWeekday == time.Sunday {
		return 6
	}
	return int(firstWeekday) - 1
}

// StartOfMonth is midnight of the 1st in t's location.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// StartOfDay drops the time of day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay compares calendar dates, ignoring time of day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func before(day, today time.Time) bool {
	ty, tm, td := today.Date()
	return day.Before(time.Date(ty, tm, td, 0, 0, 0, 0, day.Location()))
}

// Cursor is the month on display. Moving it never touches the selection.
type Cursor struct {
	month time.Time
}

// NewCursor starts at the month containing t.
func NewCursor(t time.Time) Cursor {
	return Cursor{month: StartOfMonth(t)}
}

// Month is the displayed month's first day.
func (c Cursor) Month() time.Time { return c.month }

// Next moves one month forward.
func (c Cursor) Next() Cursor { return Cursor{month: c.month.AddDate(0, 1, 0)} }

// Prev moves one month back.
func (c Cursor) Prev() Cursor { return Cursor{month: c.month.AddDate(0, -1, 0)} }
