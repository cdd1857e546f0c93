// Package status provides a thread-safe status tracker for the monitor
// daemon and assembles the aggregate view published after each cycle.
package status

import (
	"sync"
	"time"

	"github.com/Dolhen-James/AMIO-PROJECT/internal/logic"
	"github.com/Dolhen-James/AMIO-PROJECT/internal/notify"
)

// AggregateView is the published per-cycle picture of the sensor network.
// Sensors are value copies, so a view stays consistent while later
// cycles keep mutating the store.
type AggregateView struct {
	Status        string
	GeneratedAt   time.Time
	SensorCount   int
	LightsOnCount int
	Sensors       []logic.SensorState
}

// BuildView assembles a view from state copies. It is a pure read and
// safe to call at any time, including while a cycle is in flight.
func BuildView(states []logic.SensorState, message string, generatedAt time.Time) AggregateView {
	lit := 0
	for _, st := range states {
		if st.LightOn {
			lit++
		}
	}
	return AggregateView{
		Status:        message,
		GeneratedAt:   generatedAt,
		SensorCount:   len(states),
		LightsOnCount: lit,
		Sensors:       states,
	}
}

// StatusOrWaiting substitutes the placeholder shown before the first
// cycle has produced a status message.
func StatusOrWaiting(message string) string {
	if message == "" {
		return "Waiting for data..."
	}
	return message
}

// TransitionCounts tracks observed light changes since startup.
type TransitionCounts struct {
	On  int
	Off int
}

// AlertCounts tracks dispatch outcomes since startup.
type AlertCounts struct {
	Delivered   int
	Suppressed  int
	Unavailable int
}

// Config contains fixed daemon configuration for display. Runtime
// tunables live elsewhere and are served by the settings endpoint.
type Config struct {
	Broker   string
	HTTPAddr string
}

// Snapshot is a point-in-time view of daemon state. It is a value
// type, safe to use after the lock is released.
type Snapshot struct {
	StatusMessage string
	LastCycleAt   time.Time
	Cycles        int
	Transitions   TransitionCounts
	Alerts        AlertCounts
	MQTTConnected bool
	StartTime     time.Time
	Now           time.Time
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// RecordCycle notes a completed cycle and its resulting status message.
// Called after every cycle, successful or not.
func (t *Tracker) RecordCycle(message string, at time.Time) {
	t.mu.Lock()
	t.snap.StatusMessage = message
	t.snap.LastCycleAt = at
	t.snap.Cycles++
	t.mu.Unlock()
}

// RecordTransitions adds a cycle's observed light changes.
func (t *Tracker) RecordTransitions(transitions []logic.Transition) {
	if len(transitions) == 0 {
		return
	}
	t.mu.Lock()
	for _, tr := range transitions {
		if tr.Direction == logic.TurnedOn {
			t.snap.Transitions.On++
		} else {
			t.snap.Transitions.Off++
		}
	}
	t.mu.Unlock()
}

// RecordAlert notes a dispatch outcome.
func (t *Tracker) RecordAlert(outcome notify.Outcome) {
	t.mu.Lock()
	switch outcome {
	case notify.OutcomeDelivered:
		t.snap.Alerts.Delivered++
	case notify.OutcomeSuppressed:
		t.snap.Alerts.Suppressed++
	case notify.OutcomeUnavailable:
		t.snap.Alerts.Unavailable++
	}
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
