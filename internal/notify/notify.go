// Package notify raises the grouped alert for a cycle's light changes.
package notify

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/Dolhen-James/AMIO-PROJECT/internal/logic"
)

// Outcome reports what a dispatch attempt did.
type Outcome string

const (
	OutcomeDelivered   Outcome = "delivered"
	OutcomeSuppressed  Outcome = "suppressed"
	OutcomeUnavailable Outcome = "unavailable"
)

// ErrUnavailable is returned by sinks that currently have no way to
// deliver, for example a disconnected broker session.
var ErrUnavailable = errors.New("notify: delivery channel unavailable")

// DefaultCooldown is the stock minimum gap between two delivered alerts.
const DefaultCooldown = 5 * time.Second

// All changes in a cycle share one notification, so the ledger holds a
// single key.
const cooldownKey = "grouped_notification"

// vibrationPulse is the length of the haptic hint after a delivery.
const vibrationPulse = 200 * time.Millisecond

// Alert is one grouped notification covering every change in a cycle.
type Alert struct {
	At       time.Time
	Title    string
	Body     string
	Expanded string
	MotesOn  []string
	MotesOff []string
}

// Sink delivers a formatted alert to the outside world.
type Sink interface {
	Deliver(a Alert) error
}

// Buzzer gives a short physical pulse after a delivered alert.
type Buzzer interface {
	Pulse(d time.Duration) error
}

// Options control a single dispatch attempt. They are passed per call so
// runtime settings changes apply from the next cycle on.
type Options struct {
	// Cooldown is the minimum gap between two delivered alerts.
	Cooldown time.Duration
	// Enabled gates delivery entirely.
	Enabled bool
}

// Dispatcher rate-limits grouped alerts and hands them to a sink.
type Dispatcher struct {
	sink   Sink
	buzzer Buzzer

	mu     sync.Mutex
	ledger map[string]time.Time
}

// NewDispatcher builds a dispatcher delivering through sink. The buzzer
// may be nil.
func NewDispatcher(sink Sink, buzzer Buzzer) *Dispatcher {
	return &Dispatcher{
		sink:   sink,
		buzzer: buzzer,
		ledger: make(map[string]time.Time),
	}
}

// Dispatch sends one grouped alert for the cycle's transitions. An empty
// list is a no-op. The cooldown is checked before anything is built, and
// the ledger moves forward only after the sink accepted the alert, so a
// failed delivery leaves the next cycle free to retry immediately.
func (d *Dispatcher) Dispatch(now time.Time, transitions []logic.Transition, opts Options) Outcome {
	if len(transitions) == 0 {
		return OutcomeSuppressed
	}
	if !opts.Enabled {
		return OutcomeUnavailable
	}

	d.mu.Lock()
	last, seen := d.ledger[cooldownKey]
	d.mu.Unlock()
	if seen && now.Sub(last) < opts.Cooldown {
		log.Printf("notify: cooldown active, skipping grouped alert")
		return OutcomeSuppressed
	}

	alert := buildAlert(now, transitions)
	if err := d.sink.Deliver(alert); err != nil {
		log.Printf("notify: delivery failed: %v", err)
		return OutcomeUnavailable
	}

	d.mu.Lock()
	d.ledger[cooldownKey] = now
	d.mu.Unlock()

	if d.buzzer != nil {
		if err := d.buzzer.Pulse(vibrationPulse); err != nil {
			log.Printf("notify: buzzer pulse failed: %v", err)
		}
	}

	return OutcomeDelivered
}

// LogSink writes alerts to the process log. It stands in for a real
// delivery channel when MQTT publishing is disabled.
type LogSink struct{}

// Deliver logs the alert.
func (LogSink) Deliver(a Alert) error {
	log.Printf("notify: %s", a.Title)
	if a.Body != "" {
		log.Printf("notify: %s", a.Body)
	}
	return nil
}
