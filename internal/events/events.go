// Package events persists user interaction events. Event tracking is
// best-effort telemetry: writers never block callers and never surface
// failures to the request path.
package events

import "time"

const (
	// TypeSearch routes an event to the search_events table.
	TypeSearch = "search"
	// TypeClick routes an event to the click_events table.
	TypeClick = "click"
)

// Event is a single write-only interaction record. Payload is an open
// mapping; no schema is enforced.
type Event struct {
	ID        string
	Type      string
	Payload   map[string]any
	CreatedAt time.Time
}

// TableFor returns the destination table for an event type: "search" maps to
// search_events, anything else to click_events.
func TableFor(eventType string) string {
	if eventType == TypeSearch {
		return "search_events"
	}
	return "click_events"
}

// Writer is the interface for persisting events.
// Write must NEVER block the caller.
type Writer interface {
	Write(event *Event)
	Close()
}
