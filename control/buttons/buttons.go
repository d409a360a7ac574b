// Package buttons turns the front-panel push buttons into debounced press events.
package buttons

import (
	"fmt"

	"github.com/jrockway/alarm-clock/control/clock"
	"periph.io/x/conn/v3/gpio"
)

// Pins are the button inputs.  Any of them may be nil, in which case that button is never
// pressed.
type Pins struct {
	Set, Plus, Minus, Alarm, Snooze gpio.PinIn
}

// button debounces one input.  A change is accepted once two consecutive samples agree.
type button struct {
	pin       gpio.PinIn
	activeLow bool
	lastRaw   bool
	pressed   bool
}

// sample reads the pin and reports whether the button was just pressed.
func (b *button) sample() bool {
	if b == nil {
		return false
	}
	raw := b.pin.Read() == gpio.High
	if b.activeLow {
		raw = !raw
	}
	edge := false
	if raw == b.lastRaw && raw != b.pressed {
		b.pressed = raw
		edge = raw
	}
	b.lastRaw = raw
	return edge
}

// Sampler implements clock.Buttons.
type Sampler struct {
	set, plus, minus, alarm, snooze *button
}

// New configures the pins as inputs and returns a Sampler.  Active-low buttons (wired to ground)
// get the internal pull-up, active-high ones the pull-down.
func New(p Pins, activeLow bool) (*Sampler, error) {
	pull := gpio.PullDown
	if activeLow {
		pull = gpio.PullUp
	}
	setup := func(name string, pin gpio.PinIn) (*button, error) {
		if pin == nil {
			return nil, nil
		}
		if err := pin.In(pull, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("configure %s button on %s: %w", name, pin, err)
		}
		return &button{pin: pin, activeLow: activeLow}, nil
	}

	s := new(Sampler)
	var err error
	if s.set, err = setup("set", p.Set); err != nil {
		return nil, err
	}
	if s.plus, err = setup("plus", p.Plus); err != nil {
		return nil, err
	}
	if s.minus, err = setup("minus", p.Minus); err != nil {
		return nil, err
	}
	if s.alarm, err = setup("alarm", p.Alarm); err != nil {
		return nil, err
	}
	if s.snooze, err = setup("snooze", p.Snooze); err != nil {
		return nil, err
	}
	return s, nil
}

// Poll samples every button once.
func (s *Sampler) Poll() clock.Edges {
	return clock.Edges{
		Set:    s.set.sample(),
		Plus:   s.plus.sample(),
		Minus:  s.minus.sample(),
		Alarm:  s.alarm.sample(),
		Snooze: s.snooze.sample(),
	}
}
