// Package gpio drives the alert buzzer with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import "time"

// Buzzer emits short physical pulses.
type Buzzer interface {
	// Pulse drives the line high for the given duration, then low.
	// It blocks for the pulse length.
	Pulse(d time.Duration) error

	// Close releases GPIO resources, leaving the line low.
	Close() error
}

// DefaultPin is the BCM line the buzzer module is wired to.
const DefaultPin = 18
