package analysis

import (
	"math"
	"time"

	"github.com/christopherklint97/sitterload/internal/calendar"
)

// Granularity names the kind of period a Window covers.
type Granularity string

const (
	GranularityDay     Granularity = "day"
	GranularityWeek    Granularity = "week"
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
	GranularityYear    Granularity = "year"
	GranularityCustom  Granularity = "custom"
)

// Window is a run of consecutive calendar days starting at local midnight.
type Window struct {
	Granularity Granularity
	Start       time.Time
	Days        int
}

// End returns the exclusive end of the window.
func (w Window) End() time.Time {
	return w.Start.AddDate(0, 0, w.Days)
}

// Dates returns local midnight of every day in the window.
func (w Window) Dates() []time.Time {
	if w.Days <= 0 {
		return nil
	}
	dates := make([]time.Time, w.Days)
	for i := range dates {
		dates[i] = w.Start.AddDate(0, 0, i)
	}
	return dates
}

func DayWindow(t time.Time) Window {
	return Window{Granularity: GranularityDay, Start: calendar.DayStart(t), Days: 1}
}

// WeekWindow returns the week containing t, beginning on weekStart.
func WeekWindow(t time.Time, weekStart time.Weekday) Window {
	day := calendar.DayStart(t)
	offset := (int(day.Weekday()) - int(weekStart) + 7) % 7
	return Window{Granularity: GranularityWeek, Start: day.AddDate(0, 0, -offset), Days: 7}
}

func MonthWindow(t time.Time) Window {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return Window{Granularity: GranularityMonth, Start: start, Days: daysBetween(start, start.AddDate(0, 1, 0))}
}

func QuarterWindow(t time.Time) Window {
	firstMonth := time.Month((int(t.Month())-1)/3*3 + 1)
	start := time.Date(t.Year(), firstMonth, 1, 0, 0, 0, 0, t.Location())
	return Window{Granularity: GranularityQuarter, Start: start, Days: daysBetween(start, start.AddDate(0, 3, 0))}
}

func YearWindow(t time.Time) Window {
	start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	return Window{Granularity: GranularityYear, Start: start, Days: daysBetween(start, start.AddDate(1, 0, 0))}
}

// CustomWindow covers days consecutive days from start. Negative lengths are
// treated as empty.
func CustomWindow(start time.Time, days int) Window {
	if days < 0 {
		days = 0
	}
	return Window{Granularity: GranularityCustom, Start: calendar.DayStart(start), Days: days}
}

// Previous returns the immediately preceding window of the same granularity,
// aligned to calendar boundaries rather than counted back N days.
func (w Window) Previous() Window {
	switch w.Granularity {
	case GranularityDay:
		return DayWindow(w.Start.AddDate(0, 0, -1))
	case GranularityWeek:
		return Window{Granularity: GranularityWeek, Start: w.Start.AddDate(0, 0, -7), Days: 7}
	case GranularityMonth:
		return MonthWindow(w.Start.AddDate(0, -1, 0))
	case GranularityQuarter:
		return QuarterWindow(w.Start.AddDate(0, -3, 0))
	case GranularityYear:
		return YearWindow(w.Start.AddDate(-1, 0, 0))
	default:
		return Window{Granularity: w.Granularity, Start: w.Start.AddDate(0, 0, -w.Days), Days: w.Days}
	}
}

// daysBetween counts calendar days; rounding absorbs DST hour shifts.
func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}
