package display

import (
	"fmt"

	"periph.io/x/conn/v3"
)

// MAX7219 registers.
const (
	maxDecodeMode  = 0x09
	maxIntensity   = 0x0a
	maxScanLimit   = 0x0b
	maxShutdown    = 0x0c
	maxDisplayTest = 0x0f
)

// Code B font values.
const (
	codeBDash  = 0x0a
	codeBBlank = 0x0f
	codeBDP    = 0x80
)

// max7219Digits maps display positions to digit registers.  The module's digit 0 (register 1) is
// the rightmost.
var max7219Digits = [Positions]byte{0x04, 0x03, 0x02, 0x01}

// MAX7219 drives a 7-segment module with a MAX7219 or MAX7221 controller in Code B decode mode.
// Like the TM1637, the controller multiplexes by itself, so only changed digits are sent.
type MAX7219 struct {
	c     conn.Conn
	cur   [Positions]byte
	shown [Positions]byte
	sent  bool
	colon bool
}

// NewMAX7219 initializes the controller on c, usually an SPI connection at up to 10MHz in
// mode 0.  Brightness is 0-15.
func NewMAX7219(c conn.Conn, brightness int) (*MAX7219, error) {
	if brightness < 0 || brightness > 0x0f {
		return nil, fmt.Errorf("brightness %d is not 0-15", brightness)
	}
	m := &MAX7219{c: c}
	m.clear()
	for _, w := range [][2]byte{
		{maxScanLimit, Positions - 1},
		{maxDecodeMode, 0xff},
		{maxDisplayTest, 0x00},
		{maxShutdown, 0x01},
		{maxIntensity, byte(brightness)},
	} {
		if err := m.write(w[0], w[1]); err != nil {
			return nil, fmt.Errorf("init max7219: %w", err)
		}
	}
	return m, nil
}

func (m *MAX7219) write(reg, value byte) error {
	return m.c.Tx([]byte{reg, value}, nil)
}

func (m *MAX7219) clear() {
	for i := range m.cur {
		m.cur[i] = codeBBlank
	}
}

func (m *MAX7219) ShowDigit(pos, value int) error {
	if _, err := segmentsFor(pos, value); err != nil {
		return err
	}
	m.cur[pos] = byte(value)
	return nil
}

func (m *MAX7219) ShowDash(pos int) error {
	if err := checkPosition(pos); err != nil {
		return err
	}
	m.cur[pos] = codeBDash
	return nil
}

// BlankAll ends the frame and sends the digits that changed.
func (m *MAX7219) BlankAll() error {
	frame := m.cur
	m.clear()
	if m.colon {
		frame[colonPosition] |= codeBDP
	}
	for i, v := range frame {
		if m.sent && v == m.shown[i] {
			continue
		}
		if err := m.write(max7219Digits[i], v); err != nil {
			return fmt.Errorf("write digit %d: %w", i, err)
		}
	}
	m.shown, m.sent = frame, true
	return nil
}

func (m *MAX7219) SetSeparator(on bool) error {
	m.colon = on
	return nil
}

// Halt blanks the display, leaving only the last decimal point lit so that someone looking at
// the clock can tell that it still has power.
func (m *MAX7219) Halt() error {
	for i, reg := range max7219Digits {
		v := byte(codeBBlank)
		if i == Positions-1 {
			v |= codeBDP
		}
		if err := m.write(reg, v); err != nil {
			return fmt.Errorf("blank digit %d: %w", i, err)
		}
	}
	m.sent = false
	return nil
}
