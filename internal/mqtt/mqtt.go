// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"
)

// TopicEvents is the MQTT topic for panel operation events.
const TopicEvents = "pltn/panel/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "pltn/panel/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// PublishEvent sends a panel event (pump transition, SCRAM,
	// denied command) to the broker. Returns error if publishing
	// fails (should not crash the process).
	PublishEvent(event Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Event represents one panel operation event.
type Event struct {
	Timestamp time.Time
	Type      string // e.g. "SCRAM", "PUMP_PRIMARY_ON", "DENIED"
	Detail    string // e.g. the denied reason
	Retained  bool
}

// SystemEvent represents a system lifecycle event (startup, shutdown,
// heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g. "SIGTERM" (shutdown only)
	RawPayload []byte // pre-formatted JSON; if set, FormatSystemPayload returns it directly
	Retained   bool
}

// EventPayload is the JSON envelope for panel events.
type EventPayload struct {
	Panel PanelPayload `json:"panel"`
}

// PanelPayload contains the event details.
type PanelPayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Detail    string `json:"detail,omitempty"`
}

// FormatEventPayload creates the JSON payload for a panel event.
func FormatEventPayload(event Event) ([]byte, error) {
	payload := EventPayload{
		Panel: PanelPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Type,
			Detail:    event.Detail,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload is the JSON envelope for simple system events that
// don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full
// status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}
	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
