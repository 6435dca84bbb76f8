package calendar

import "time"

// DayStart returns local midnight of the day containing t, in t's location.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayEnd returns the exclusive end of the day containing t: the following
// midnight. AddDate keeps this correct across DST transitions.
func DayEnd(t time.Time) time.Time {
	return DayStart(t).AddDate(0, 0, 1)
}

// SameDay reports whether a and b fall on the same calendar date in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// LastDay returns midnight of the calendar day holding the final instant of
// e. An event ending exactly at midnight ends on the previous day.
func LastDay(e Event) time.Time {
	if !e.End.After(e.Start) {
		return DayStart(e.Start)
	}
	return DayStart(e.End.Add(-time.Nanosecond))
}

// Overlap returns how much of e falls inside the day containing day.
func Overlap(e Event, day time.Time) time.Duration {
	lo, hi := DayStart(day), DayEnd(day)

	start, end := e.Start, e.End
	if start.Before(lo) {
		start = lo
	}
	if end.After(hi) {
		end = hi
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start)
}

// Touches reports whether e occupies any part of the day containing day. A
// zero-length event touches the day its start falls on.
func Touches(e Event, day time.Time) bool {
	if !e.End.After(e.Start) {
		return SameDay(day, e.Start)
	}
	return Overlap(e, day) > 0
}

// MinutesOnDay returns the working minutes e contributes to the given day.
// All-day and overnight events contribute nothing; housesits are reported
// separately.
func MinutesOnDay(e Event, day time.Time) float64 {
	switch ClassifyKind(e) {
	case KindAllDay, KindOvernight:
		return 0
	}
	return Overlap(e, day).Minutes()
}
