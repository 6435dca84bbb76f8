package store

import (
	"fmt"
	"time"
)

// IgnoredEvent is an event the sitter has excluded from workload totals.
type IgnoredEvent struct {
	EventID   string
	Title     string
	IgnoredAt time.Time
}

// IgnoreEvent marks an event as ignored. Ignoring an already ignored event
// refreshes its title only.
func (db *DB) IgnoreEvent(eventID, title string) error {
	if eventID == "" {
		return fmt.Errorf("ignoring event: empty event ID")
	}
	_, err := db.Exec(
		`INSERT INTO ignored_events (event_id, title, ignored_at) VALUES (?, ?, ?)
		 ON CONFLICT(event_id) DO UPDATE SET title = excluded.title`,
		eventID, title, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("ignoring event: %w", err)
	}
	return nil
}

// UnignoreEvent removes an event from the ignore list. It reports whether
// the event was ignored.
func (db *DB) UnignoreEvent(eventID string) (bool, error) {
	res, err := db.Exec("DELETE FROM ignored_events WHERE event_id = ?", eventID)
	if err != nil {
		return false, fmt.Errorf("unignoring event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("unignoring event: %w", err)
	}
	return n > 0, nil
}

// IgnoredIDs returns the ignore list as a set, ready for calendar.ApplyIgnored.
func (db *DB) IgnoredIDs() (map[string]bool, error) {
	events, err := db.IgnoredEvents()
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(events))
	for _, e := range events {
		ids[e.EventID] = true
	}
	return ids, nil
}

func (db *DB) IgnoredEvents() ([]IgnoredEvent, error) {
	rows, err := db.Query("SELECT event_id, title, ignored_at FROM ignored_events ORDER BY ignored_at ASC, event_id ASC")
	if err != nil {
		return nil, fmt.Errorf("querying ignored events: %w", err)
	}
	defer rows.Close()

	var events []IgnoredEvent
	for rows.Next() {
		var e IgnoredEvent
		var ignoredAt string
		if err := rows.Scan(&e.EventID, &e.Title, &ignoredAt); err != nil {
			return nil, fmt.Errorf("scanning ignored event: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, ignoredAt); err == nil {
			e.IgnoredAt = t
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
