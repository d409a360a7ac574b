// Package display drives the clock's 4-digit 7-segment display, and keeps a picture of it for
// debugging the rest of the program without the display attached.
//
// Every renderer here implements clock.Renderer: a frame is ShowDigit/ShowDash calls for the lit
// positions, then one BlankAll.
package display

import "fmt"

// Positions is the number of digits on the display.
const Positions = 4

// Segment bits, in the usual a-g order:
//
//	 aaa
//	f   b
//	 ggg
//	e   c
//	 ddd  .
const (
	segA = 1 << iota
	segB
	segC
	segD
	segE
	segF
	segG
	segDP
)

var digitSegments = [10]byte{
	segA | segB | segC | segD | segE | segF,        // 0
	segB | segC,                                    // 1
	segA | segB | segD | segE | segG,               // 2
	segA | segB | segC | segD | segG,               // 3
	segB | segC | segF | segG,                      // 4
	segA | segC | segD | segF | segG,               // 5
	segA | segC | segD | segE | segF | segG,        // 6
	segA | segB | segC,                             // 7
	segA | segB | segC | segD | segE | segF | segG, // 8
	segA | segB | segC | segD | segF | segG,        // 9
}

const dashSegments = segG

// Renderer is the interface that the renderers in this package share.
type Renderer interface {
	ShowDigit(pos, value int) error
	ShowDash(pos int) error
	BlankAll() error
	SetSeparator(on bool) error
}

func segmentsFor(pos, value int) (byte, error) {
	if err := checkPosition(pos); err != nil {
		return 0, err
	}
	if value < 0 || value > 9 {
		return 0, fmt.Errorf("digit %d is not 0-9", value)
	}
	return digitSegments[value], nil
}

func checkPosition(pos int) error {
	if pos < 0 || pos >= Positions {
		return fmt.Errorf("position %d is not 0-%d", pos, Positions-1)
	}
	return nil
}

// Multi draws every frame on several renderers.
type Multi []Renderer

func (m Multi) ShowDigit(pos, value int) error {
	for _, r := range m {
		if err := r.ShowDigit(pos, value); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) ShowDash(pos int) error {
	for _, r := range m {
		if err := r.ShowDash(pos); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) BlankAll() error {
	for _, r := range m {
		if err := r.BlankAll(); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) SetSeparator(on bool) error {
	for _, r := range m {
		if err := r.SetSeparator(on); err != nil {
			return err
		}
	}
	return nil
}
