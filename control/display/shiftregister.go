package display

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// ShiftRegisterPins wire a multiplexed common-cathode display: a 74HC595 holds the segments of
// one digit, and one output per digit switches that digit on.  Separator drives the colon LEDs
// and may be nil.
type ShiftRegisterPins struct {
	SER, SRCLK, RCLK gpio.PinOut
	Digits           [Positions]gpio.PinOut
	Separator        gpio.PinOut
}

// ShiftRegister lights one digit at a time, holding each for the digit delay.  The display has
// no memory; it must be redrawn continuously to stay lit.
type ShiftRegister struct {
	pins  ShiftRegisterPins
	delay time.Duration
	sleep func(time.Duration)
	lit   int // digits shown since the last BlankAll
}

// NewShiftRegister checks the pins and turns everything off.
func NewShiftRegister(pins ShiftRegisterPins, digitDelay time.Duration) (*ShiftRegister, error) {
	if pins.SER == nil || pins.SRCLK == nil || pins.RCLK == nil {
		return nil, fmt.Errorf("shift register needs SER, SRCLK and RCLK pins")
	}
	for i, p := range pins.Digits {
		if p == nil {
			return nil, fmt.Errorf("no pin for digit %d", i)
		}
	}
	s := &ShiftRegister{pins: pins, delay: digitDelay, sleep: time.Sleep}
	for _, p := range []gpio.PinOut{pins.SER, pins.SRCLK, pins.RCLK} {
		if err := p.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("init %s: %w", p, err)
		}
	}
	if err := s.digitsOff(); err != nil {
		return nil, err
	}
	if err := s.SetSeparator(false); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ShiftRegister) digitsOff() error {
	for i, p := range s.pins.Digits {
		if err := p.Out(gpio.Low); err != nil {
			return fmt.Errorf("turn off digit %d: %w", i, err)
		}
	}
	return nil
}

// shift clocks b into the register, most significant bit first, and latches it onto the
// outputs.  Q0 ends up holding bit 0 (segment a).
func (s *ShiftRegister) shift(b byte) error {
	if err := s.pins.RCLK.Out(gpio.Low); err != nil {
		return err
	}
	for bit := 7; bit >= 0; bit-- {
		if err := s.pins.SRCLK.Out(gpio.Low); err != nil {
			return err
		}
		if err := s.pins.SER.Out(b&(1<<bit) != 0); err != nil {
			return err
		}
		if err := s.pins.SRCLK.Out(gpio.High); err != nil {
			return err
		}
	}
	return s.pins.RCLK.Out(gpio.High)
}

func (s *ShiftRegister) show(pos int, segments byte) error {
	if err := s.digitsOff(); err != nil {
		return err
	}
	if err := s.shift(segments); err != nil {
		return fmt.Errorf("shift segments: %w", err)
	}
	if err := s.pins.Digits[pos].Out(gpio.High); err != nil {
		return fmt.Errorf("turn on digit %d: %w", pos, err)
	}
	s.sleep(s.delay)
	s.lit++
	return nil
}

func (s *ShiftRegister) ShowDigit(pos, value int) error {
	seg, err := segmentsFor(pos, value)
	if err != nil {
		return err
	}
	return s.show(pos, seg)
}

func (s *ShiftRegister) ShowDash(pos int) error {
	if err := checkPosition(pos); err != nil {
		return err
	}
	return s.show(pos, dashSegments)
}

// BlankAll turns every digit off and stays dark for as long as the unlit digits would have been
// on, so that a frame's brightness does not depend on how many digits it shows.
func (s *ShiftRegister) BlankAll() error {
	if err := s.digitsOff(); err != nil {
		return err
	}
	if dark := Positions - s.lit; dark > 0 {
		s.sleep(time.Duration(dark) * s.delay)
	}
	s.lit = 0
	return nil
}

func (s *ShiftRegister) SetSeparator(on bool) error {
	if s.pins.Separator == nil {
		return nil
	}
	if err := s.pins.Separator.Out(gpio.Level(on)); err != nil {
		return fmt.Errorf("set separator: %w", err)
	}
	return nil
}
