package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekWindow(t *testing.T) {
	w := WeekWindow(at(12, 15, 30), time.Monday)
	assert.Equal(t, at(10, 0, 0), w.Start)
	assert.Equal(t, 7, w.Days)
	assert.Equal(t, at(17, 0, 0), w.End())

	sunday := WeekWindow(at(12, 15, 30), time.Sunday)
	assert.Equal(t, at(9, 0, 0), sunday.Start)

	prev := w.Previous()
	assert.Equal(t, at(3, 0, 0), prev.Start)
	assert.Equal(t, GranularityWeek, prev.Granularity)
}

func TestMonthAndQuarterWindows(t *testing.T) {
	feb := MonthWindow(time.Date(2024, 2, 14, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, 29, feb.Days)

	mar := MonthWindow(at(31, 23, 0))
	assert.Equal(t, 31, mar.Days)
	prev := mar.Previous()
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), prev.Start)
	assert.Equal(t, 28, prev.Days)

	q := QuarterWindow(time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), q.Start)
	assert.Equal(t, 91, q.Days)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), q.Previous().Start)

	y := YearWindow(at(10, 0, 0))
	assert.Equal(t, 365, y.Days)
}

func TestWindowDatesAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	w := WeekWindow(time.Date(2025, 3, 9, 12, 0, 0, 0, ny), time.Monday)
	dates := w.Dates()
	require.Len(t, dates, 7)
	for _, d := range dates {
		assert.Equal(t, 0, d.Hour(), "every day starts at local midnight")
	}

	m := MonthWindow(time.Date(2025, 3, 15, 0, 0, 0, 0, ny))
	assert.Equal(t, 31, m.Days)
}

func TestCustomWindow(t *testing.T) {
	w := CustomWindow(at(10, 14, 0), 3)
	assert.Equal(t, at(10, 0, 0), w.Start)
	assert.Equal(t, at(7, 0, 0), w.Previous().Start)

	assert.Empty(t, CustomWindow(at(10, 0, 0), -2).Dates())
	assert.Equal(t, 0, CustomWindow(at(10, 0, 0), -2).Days)
}

func TestDayWindowPrevious(t *testing.T) {
	d := DayWindow(at(1, 8, 0))
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), d.Previous().Start)
}
