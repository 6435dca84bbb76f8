package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	ical "github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
)

// PropSitterType is an optional ICS property carrying the service category.
const PropSitterType = "X-SITTER-TYPE"

// maxOccurrences caps RRULE expansion per event.
const maxOccurrences = 1000

var eventNamespace = uuid.MustParse("6f1c7d4e-2b9a-4c39-9a41-3c8e0d5b7f12")

// Fetch retrieves and parses iCalendar events from a URL or file path,
// returning events that overlap with the given time window. Recurring events
// are expanded into one Event per occurrence.
func Fetch(ctx context.Context, source string, windowStart, windowEnd time.Time, loc *time.Location) ([]Event, error) {
	var r io.ReadCloser

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching calendar: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("calendar fetch returned status %d", resp.StatusCode)
		}
		r = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("opening calendar file: %w", err)
		}
		r = f
	}
	defer r.Close()

	return Parse(r, windowStart, windowEnd, loc)
}

// Parse decodes an iCalendar stream and returns the events overlapping
// [windowStart, windowEnd), sorted by start.
func Parse(r io.Reader, windowStart, windowEnd time.Time, loc *time.Location) ([]Event, error) {
	if loc == nil {
		loc = time.Local
	}

	dec := ical.NewDecoder(r)
	var events []Event

	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing calendar: %w", err)
		}

		for _, component := range cal.Children {
			if component.Name != ical.CompEvent {
				continue
			}
			event := ical.Event{Component: component}

			base, ok := baseEvent(event, loc)
			if !ok {
				continue // skip malformed events
			}

			set, err := event.RecurrenceSet(loc)
			if err != nil || set == nil {
				if overlaps(base, windowStart, windowEnd) {
					events = append(events, base)
				}
				continue
			}
			events = append(events, expand(base, set, windowStart, windowEnd)...)
		}
	}

	SortByStart(events)
	return events, nil
}

func baseEvent(event ical.Event, loc *time.Location) (Event, bool) {
	start, err := event.DateTimeStart(loc)
	if err != nil || start.IsZero() {
		return Event{}, false
	}
	end, err := event.DateTimeEnd(loc)
	if err != nil {
		return Event{}, false
	}

	allDay := false
	if prop := event.Props.Get(ical.PropDateTimeStart); prop != nil {
		allDay = prop.ValueType() == ical.ValueDate || len(prop.Value) == len("20060102")
	}
	if end.IsZero() {
		if allDay {
			end = start.AddDate(0, 0, 1)
		} else {
			end = start
		}
	}

	summary, _ := event.Props.Text(ical.PropSummary)
	if summary == "" {
		return Event{}, false
	}
	location, _ := event.Props.Text(ical.PropLocation)
	uid, _ := event.Props.Text(ical.PropUID)
	if uid == "" {
		uid = uuid.NewSHA1(eventNamespace, []byte(summary+"|"+start.UTC().Format(time.RFC3339))).String()
	}

	return Event{
		ID:       uid,
		Title:    summary,
		Type:     eventType(event, summary),
		Start:    start,
		End:      end,
		Location: strings.TrimSpace(location),
		AllDay:   allDay,
	}, true
}

func eventType(event ical.Event, summary string) EventType {
	if v, err := event.Props.Text(PropSitterType); err == nil && v != "" {
		if t, ok := ParseEventType(v); ok {
			return t
		}
	}
	if prop := event.Props.Get(ical.PropCategories); prop != nil {
		for _, c := range strings.Split(prop.Value, ",") {
			if t, ok := ParseEventType(c); ok {
				return t
			}
		}
	}
	return InferType(summary)
}

// expand turns a recurring base event into concrete occurrences.
func expand(base Event, set *rrule.Set, windowStart, windowEnd time.Time) []Event {
	dur := base.Duration()
	var out []Event
	for i, occ := range set.Between(windowStart.Add(-dur), windowEnd, true) {
		if i >= maxOccurrences {
			break
		}
		e := base
		e.ID = base.ID + "@" + occ.UTC().Format("20060102T150405Z")
		e.Start = occ
		e.End = occ.Add(dur)
		if overlaps(e, windowStart, windowEnd) {
			out = append(out, e)
		}
	}
	return out
}

func overlaps(e Event, windowStart, windowEnd time.Time) bool {
	if !e.End.After(e.Start) {
		return !e.Start.Before(windowStart) && e.Start.Before(windowEnd)
	}
	return e.Start.Before(windowEnd) && e.End.After(windowStart)
}
