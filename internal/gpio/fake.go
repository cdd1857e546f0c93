package gpio

import "time"

// FakeBuzzer is a test double that records requested pulses.
type FakeBuzzer struct {
	// Pulses holds the duration of every pulse requested.
	Pulses []time.Duration

	// Closed tracks if Close was called
	Closed bool

	// PulseError, if set, will be returned by Pulse()
	PulseError error
}

// NewFakeBuzzer creates an idle FakeBuzzer.
func NewFakeBuzzer() *FakeBuzzer {
	return &FakeBuzzer{}
}

// Pulse records the requested duration without sleeping.
func (f *FakeBuzzer) Pulse(d time.Duration) error {
	if f.PulseError != nil {
		return f.PulseError
	}
	f.Pulses = append(f.Pulses, d)
	return nil
}

// Close marks the buzzer as closed.
func (f *FakeBuzzer) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded pulses and any injected error.
func (f *FakeBuzzer) Reset() {
	f.Pulses = nil
	f.Closed = false
	f.PulseError = nil
}
