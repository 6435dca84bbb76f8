package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/tj/go-naturaldate"

	"github.com/christopherklint97/sitterload/internal/calendar"
)

// parseDay resolves a date argument to local midnight. It accepts
// YYYY-MM-DD or natural language ("tomorrow", "next friday"); an empty
// string means today.
func parseDay(s string, now time.Time, loc *time.Location) (time.Time, error) {
	now = now.In(loc)
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "today") {
		return calendar.DayStart(now), nil
	}

	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}

	t, err := naturaldate.Parse(s, now, naturaldate.WithDirection(naturaldate.Future))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	// naturaldate echoes the reference time back for input it does not
	// understand.
	if t.Equal(now) {
		return time.Time{}, fmt.Errorf("parsing date %q: not a recognizable date", s)
	}
	return calendar.DayStart(t.In(loc)), nil
}

