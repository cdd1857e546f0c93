//go:build linux

package gpio

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// RealBuzzer drives a buzzer line using the Linux GPIO character device.
type RealBuzzer struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealBuzzer requests the buzzer line as an output, starting low.
func NewRealBuzzer(pin int) (*RealBuzzer, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request buzzer pin %d: %w", pin, err)
	}

	return &RealBuzzer{chip: chip, line: line}, nil
}

// Pulse drives the line high for d, then low again.
func (b *RealBuzzer) Pulse(d time.Duration) error {
	if err := b.line.SetValue(1); err != nil {
		return fmt.Errorf("raise buzzer pin: %w", err)
	}
	time.Sleep(d)
	if err := b.line.SetValue(0); err != nil {
		return fmt.Errorf("lower buzzer pin: %w", err)
	}
	return nil
}

// Close lowers the line and releases GPIO resources so the buzzer cannot
// be left sounding across a restart.
func (b *RealBuzzer) Close() error {
	var errs []error

	if b.line != nil {
		if err := b.line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("lower buzzer pin: %w", err))
		}
		if err := b.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close buzzer pin: %w", err))
		}
	}
	if b.chip != nil {
		if err := b.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
