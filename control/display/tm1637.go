package display

import (
	"fmt"
	"io"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/devices/v3/tm1637"
)

// colonBit lights the colon on the common 4-digit TM1637 clock modules.
const (
	colonPosition = 1
	colonBit      = segDP
)

// TM1637 drives a display module with a TM1637 controller.  The controller refreshes the digits
// itself, so a frame is only sent when it differs from the one already showing.
type TM1637 struct {
	w     io.Writer
	halt  func() error
	cur   [Positions]byte
	shown [Positions]byte
	sent  bool
	colon bool
}

// NewTM1637 returns a TM1637 driven through clk and dio.
func NewTM1637(clk gpio.PinOut, dio gpio.PinIO) (*TM1637, error) {
	dev, err := tm1637.New(clk, dio)
	if err != nil {
		return nil, fmt.Errorf("init tm1637: %w", err)
	}
	return &TM1637{w: dev, halt: dev.Halt}, nil
}

func (t *TM1637) ShowDigit(pos, value int) error {
	seg, err := segmentsFor(pos, value)
	if err != nil {
		return err
	}
	t.cur[pos] = seg
	return nil
}

func (t *TM1637) ShowDash(pos int) error {
	if err := checkPosition(pos); err != nil {
		return err
	}
	t.cur[pos] = dashSegments
	return nil
}

// BlankAll ends the frame and sends it to the controller if it changed.
func (t *TM1637) BlankAll() error {
	frame := t.cur
	t.cur = [Positions]byte{}
	if t.colon {
		frame[colonPosition] |= colonBit
	}
	if t.sent && frame == t.shown {
		return nil
	}
	if _, err := t.w.Write(frame[:]); err != nil {
		return fmt.Errorf("write tm1637: %w", err)
	}
	t.shown, t.sent = frame, true
	return nil
}

func (t *TM1637) SetSeparator(on bool) error {
	t.colon = on
	return nil
}

// Halt blanks the module.
func (t *TM1637) Halt() error {
	if _, err := t.w.Write(make([]byte, Positions)); err != nil {
		return fmt.Errorf("blank tm1637: %w", err)
	}
	t.sent = false
	if t.halt != nil {
		return t.halt()
	}
	return nil
}
