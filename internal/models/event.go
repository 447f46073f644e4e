package models

import "time"

// Event types recorded in the diagnostic log.
const (
	EventDiscovery      = "DISCOVERY"
	EventDiscoveryError = "DISCOVERY_ERROR"
	EventPollError      = "POLL_ERROR"
	EventPollRecovered  = "POLL_RECOVERED"
	EventReorder        = "REORDER"
)

// EventTypes lists every type above, in the order the UI offers them.
var EventTypes = []string{EventDiscovery, EventDiscoveryError, EventPollError, EventPollRecovered, EventReorder}

// IsEventType reports whether t is one of EventTypes.
func IsEventType(t string) bool {
	for _, v := range EventTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Event is a single diagnostic log entry.
type Event struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // DISCOVERY | DISCOVERY_ERROR | POLL_ERROR | POLL_RECOVERED | REORDER
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
