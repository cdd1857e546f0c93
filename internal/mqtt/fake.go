package mqtt

import (
	"github.com/Dolhen-James/AMIO-PROJECT/internal/notify"
	"github.com/Dolhen-James/AMIO-PROJECT/internal/status"
)

// FakePublisher records published messages for test assertions.
type FakePublisher struct {
	// Events contains all transition events that were published.
	Events []TransitionEvent

	// EventPayloads contains the JSON payloads for transition events.
	EventPayloads [][]byte

	// States contains all aggregate snapshots that were published.
	States []status.AggregateView

	// Alerts contains all alerts that were published.
	Alerts []notify.Alert

	// AlertPayloads contains the JSON payloads for alerts.
	AlertPayloads [][]byte

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads for system events.
	SystemPayloads [][]byte

	// PublishEventError, if set, will be returned by PublishEvent.
	PublishEventError error

	// PublishStateError, if set, will be returned by PublishState.
	PublishStateError error

	// PublishAlertError, if set, will be returned by PublishAlert.
	PublishAlertError error

	// PublishSystemError, if set, will be returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// PublishEvent records the transition event.
func (f *FakePublisher) PublishEvent(event TransitionEvent) error {
	if f.PublishEventError != nil {
		return f.PublishEventError
	}

	f.Events = append(f.Events, event)

	payload, err := FormatEventPayload(event)
	if err != nil {
		return err
	}
	f.EventPayloads = append(f.EventPayloads, payload)

	return nil
}

// PublishState records the aggregate snapshot.
func (f *FakePublisher) PublishState(view status.AggregateView) error {
	if f.PublishStateError != nil {
		return f.PublishStateError
	}

	f.States = append(f.States, view)
	return nil
}

// PublishAlert records the alert.
func (f *FakePublisher) PublishAlert(alert notify.Alert) error {
	if f.PublishAlertError != nil {
		return f.PublishAlertError
	}

	f.Alerts = append(f.Alerts, alert)

	payload, err := FormatAlertPayload(alert)
	if err != nil {
		return err
	}
	f.AlertPayloads = append(f.AlertPayloads, payload)

	return nil
}

// PublishSystem records the system event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	f.SystemEvents = append(f.SystemEvents, event)

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemPayloads = append(f.SystemPayloads, payload)

	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded messages.
func (f *FakePublisher) Reset() {
	f.Events = nil
	f.EventPayloads = nil
	f.States = nil
	f.Alerts = nil
	f.AlertPayloads = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.PublishEventError = nil
	f.PublishStateError = nil
	f.PublishAlertError = nil
	f.PublishSystemError = nil
	f.Closed = false
	f.Connected = false
}
