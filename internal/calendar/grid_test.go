package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLeadingBlanks(t *testing.T) {
	cases := []struct {
		month time.Time
		want  int
	}{
		{date(2026, time.February, 1), 6}, // Sunday
		{date(2026, time.June, 1), 0},     // Monday
		{date(2026, time.September, 1), 1},
		{date(2026, time.October, 1), 3},
		{date(2026, time.August, 1), 5}, // Saturday
	}
	for _, tc := range cases {
		grid := Build(tc.month, date(2026, time.January, 1), nil)
		assert.Equal(t, tc.want, grid.LeadingBlanks, tc.month.Format("2006-01"))
	}
}

func TestDaysCoverMonth(t *testing.T) {
	cases := map[time.Time]int{
		date(2026, time.February, 10): 28,
		date(2028, time.February, 10): 29,
		date(2026, time.April, 30):    30,
		date(2026, time.December, 31): 31,
	}
	for ref, want := range cases {
		grid := Build(ref, ref, nil)
		require.Len(t, grid.Days, want)
		assert.Equal(t, 1, grid.Days[0].Day)
		assert.Equal(t, want, grid.Days[want-1].Day)
		for i := 1; i < len(grid.Days); i++ {
			assert.True(t, grid.Days[i].Date.After(grid.Days[i-1].Date))
		}
		assert.Equal(t, StartOfMonth(ref), grid.Month)
	}
}

func TestTodaySelectedAndPastFlags(t *testing.T) {
	today := time.Date(2026, time.October, 18, 9, 30, 0, 0, time.UTC)
	selected := time.Date(2026, time.October, 15, 23, 59, 0, 0, time.UTC)

	grid := Build(today, today, &selected)
	for _, cell := range grid.Days {
		assert.Equal(t, cell.Day == 18, cell.IsToday, "today flag on %d", cell.Day)
		assert.Equal(t, cell.Day == 15, cell.IsSelected, "selected flag on %d", cell.Day)
		assert.Equal(t, cell.Day < 18, cell.IsPast, "past flag on %d", cell.Day)
	}
}

func TestSelectionOutsideDisplayedMonth(t *testing.T) {
	selected := date(2026, time.October, 15)
	grid := Build(date(2026, time.November, 1), date(2026, time.October, 18), &selected)
	for _, cell := range grid.Days {
		assert.False(t, cell.IsSelected)
	}
}

func TestCursorMovesWithoutOverflow(t *testing.T) {
	c := NewCursor(time.Date(2026, time.January, 31, 15, 0, 0, 0, time.UTC))
	assert.Equal(t, date(2026, time.January, 1), c.Month())
	assert.Equal(t, date(2026, time.February, 1), c.Next().Month())
	assert.Equal(t, date(2025, time.December, 1), c.Prev().Month())
	assert.Equal(t, c.Month(), c.Next().Prev().Month())
}

func TestWeekdaysIsCopy(t *testing.T) {
	w := Weekdays()
	require.Len(t, w, 7)
	assert.Equal(t, "Mo", w[0])
	assert.Equal(t, "Su", w[6])
	w[0] = "X"
	assert.Equal(t, "Mo", Weekdays()[0])
}
