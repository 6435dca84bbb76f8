package calendar

import (
	"sort"
	"strings"
	"time"
)

// EventType is the service category of an appointment.
type EventType string

const (
	TypeDropIn    EventType = "drop-in"
	TypeWalk      EventType = "walk"
	TypeOvernight EventType = "overnight"
	TypeMeetGreet EventType = "meet-greet"
	TypeOther     EventType = "other"
)

// ParseEventType maps a category string (from ICS CATEGORIES, an X- property or
// user input) to an EventType. Unknown values return TypeOther and false.
func ParseEventType(s string) (EventType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "drop-in", "dropin", "drop in":
		return TypeDropIn, true
	case "walk", "dog walk":
		return TypeWalk, true
	case "overnight", "housesit", "house-sit", "house sit":
		return TypeOvernight, true
	case "meet-greet", "meet & greet", "meet and greet", "meet-and-greet":
		return TypeMeetGreet, true
	case "other":
		return TypeOther, true
	}
	return TypeOther, false
}

// Event represents a calendar appointment as delivered by the calendar source.
// Work and overnight verdicts are never stored here; see ClassifyKind.
type Event struct {
	ID       string
	Title    string
	Type     EventType
	Start    time.Time
	End      time.Time
	Location string
	AllDay   bool
	Ignored  bool
}

// Duration returns End-Start, or zero when the event is inverted.
func (e Event) Duration() time.Duration {
	if e.End.Before(e.Start) {
		return 0
	}
	return e.End.Sub(e.Start)
}

// HasLocation reports whether the event carries a usable address.
func (e Event) HasLocation() bool {
	return strings.TrimSpace(e.Location) != ""
}

// SortByStart sorts events in place by start time, then end time, then ID.
func SortByStart(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if !a.End.Equal(b.End) {
			return a.End.Before(b.End)
		}
		return a.ID < b.ID
	})
}

// ApplyIgnored marks every event whose ID is in ignored. The input slice is
// not modified.
func ApplyIgnored(events []Event, ignored map[string]bool) []Event {
	out := make([]Event, len(events))
	for i, e := range events {
		if ignored[e.ID] {
			e.Ignored = true
		}
		out[i] = e
	}
	return out
}
