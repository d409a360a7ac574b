// Package buzzer drives the alarm sounder from a GPIO pin.
package buzzer

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// Buzzer implements clock.Alarm.
type Buzzer struct {
	pin      gpio.PinOut
	sounding bool
}

// New returns a Buzzer on pin.  A nil pin gives a silent buzzer that only tracks its state, for
// running without the sounder attached.
func New(pin gpio.PinOut) *Buzzer {
	return &Buzzer{pin: pin}
}

// SetSounding turns the sounder on or off.
func (b *Buzzer) SetSounding(on bool) error {
	if b.pin != nil {
		if err := b.pin.Out(gpio.Level(on)); err != nil {
			return fmt.Errorf("drive buzzer on %s: %w", b.pin, err)
		}
	}
	b.sounding = on
	return nil
}

// Sounding reports whether the sounder is on.
func (b *Buzzer) Sounding() bool { return b.sounding }
