// Package logic contains pure business logic for sensor light-state tracking.
// This package has NO external dependencies (no HTTP, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// Direction describes which way a sensor's light flipped.
type Direction string

const (
	TurnedOn  Direction = "turned_on"
	TurnedOff Direction = "turned_off"
)

// Stock tuning values for the deployed sensor network.
const (
	DefaultThreshold = 200.0
	DefaultDeltaOn   = 25.0
	DefaultDeltaOff  = -25.0
)

// Reading is a single validated observation from the feed.
type Reading struct {
	Mote       string
	Label      string
	Value      float64
	ObservedAt time.Time
}

// SensorState is the tracked state of one mote. LightOn changes only
// through the hysteresis rule; the other fields follow every reading.
type SensorState struct {
	Mote           string
	Label          string
	LastValue      float64
	LastObservedAt time.Time
	LightOn        bool
}

// Transition records a light flipping on or off.
type Transition struct {
	Mote      string
	Direction Direction
}

// Tuning holds the thresholds for the hysteresis rule.
type Tuning struct {
	// Absolute level deciding the initial light flag when a mote is
	// first seen.
	Threshold float64
	// Smallest positive jump from the previous value that forces on.
	DeltaOn float64
	// Largest negative jump from the previous value that forces off.
	DeltaOff float64
}

// DefaultTuning returns the stock thresholds.
func DefaultTuning() Tuning {
	return Tuning{
		Threshold: DefaultThreshold,
		DeltaOn:   DefaultDeltaOn,
		DeltaOff:  DefaultDeltaOff,
	}
}
