// Package mqtt publishes monitor output to an MQTT broker with
// abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/Dolhen-James/AMIO-PROJECT/internal/logic"
	"github.com/Dolhen-James/AMIO-PROJECT/internal/notify"
	"github.com/Dolhen-James/AMIO-PROJECT/internal/status"
)

// Topic names for everything the monitor publishes.
const (
	// TopicState carries the per-cycle aggregate snapshot.
	TopicState = "amio/sensors/state"

	// TopicEvents carries one message per light transition.
	TopicEvents = "amio/sensors/events"

	// TopicAlerts carries grouped alert notifications.
	TopicAlerts = "amio/sensors/alerts"

	// TopicSystem carries system lifecycle events.
	TopicSystem = "amio/sensors/system"
)

// Publisher publishes monitor output to MQTT.
type Publisher interface {
	// PublishEvent sends a single light transition to the broker.
	// Returns error if publishing fails (should not crash the process).
	PublishEvent(event TransitionEvent) error

	// PublishState sends the per-cycle aggregate snapshot to the broker.
	PublishState(view status.AggregateView) error

	// PublishAlert sends a grouped alert to the broker.
	PublishAlert(alert notify.Alert) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// TransitionEvent is a single light-state change ready for publishing.
type TransitionEvent struct {
	Timestamp time.Time
	Mote      string
	Direction logic.Direction
	Value     float64
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// EventPayload represents the MQTT message payload for a light transition.
type EventPayload struct {
	Event EventPayloadInner `json:"event"`
}

// EventPayloadInner contains the transition details.
type EventPayloadInner struct {
	Timestamp string  `json:"timestamp"`
	Mote      string  `json:"mote"`
	Direction string  `json:"direction"`
	Value     float64 `json:"value"`
}

// FormatEventPayload creates the JSON payload for a light transition.
func FormatEventPayload(event TransitionEvent) ([]byte, error) {
	payload := EventPayload{
		Event: EventPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Mote:      event.Mote,
			Direction: string(event.Direction),
			Value:     event.Value,
		},
	}
	return json.Marshal(payload)
}

// FormatStatePayload creates the JSON payload for a per-cycle snapshot.
func FormatStatePayload(view status.AggregateView) ([]byte, error) {
	return json.Marshal(status.NewViewJSON(view))
}

// AlertPayload represents the MQTT message payload for a grouped alert.
type AlertPayload struct {
	Alert AlertPayloadInner `json:"alert"`
}

// AlertPayloadInner contains the alert details.
type AlertPayloadInner struct {
	Timestamp string   `json:"timestamp"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Expanded  string   `json:"expanded,omitempty"`
	MotesOn   []string `json:"motes_on,omitempty"`
	MotesOff  []string `json:"motes_off,omitempty"`
}

// FormatAlertPayload creates the JSON payload for a grouped alert.
func FormatAlertPayload(alert notify.Alert) ([]byte, error) {
	payload := AlertPayload{
		Alert: AlertPayloadInner{
			Timestamp: alert.At.UTC().Format(time.RFC3339),
			Title:     alert.Title,
			Body:      alert.Body,
			Expanded:  alert.Expanded,
			MotesOn:   alert.MotesOn,
			MotesOff:  alert.MotesOff,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events that don't carry a full status snapshot.
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
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
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
