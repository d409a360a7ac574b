package store

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
)

const (
	// EEPROMAddress is where the AT24C32 found on most DS3231 modules answers.
	EEPROMAddress = 0x57
	// EEPROMSize is the capacity of an AT24C32.
	EEPROMSize = 4096

	pageSize   = 32
	writeCycle = 5 * time.Millisecond // datasheet tWR
)

// EEPROM is an AT24C32-compatible I2C EEPROM with 16-bit word addresses:
// https://ww1.microchip.com/downloads/en/devicedoc/doc0336.pdf
type EEPROM struct {
	dev  i2c.Dev
	size int
	wait func(time.Duration)
}

// NewEEPROM returns an EEPROM of size bytes at addr on bus.
func NewEEPROM(bus i2c.Bus, addr uint16, size int) *EEPROM {
	return &EEPROM{dev: i2c.Dev{Bus: bus, Addr: addr}, size: size, wait: time.Sleep}
}

func (e *EEPROM) Len() int { return e.size }

func (e *EEPROM) ReadByteAt(addr int) (byte, error) {
	if err := checkAddress(addr, e.size); err != nil {
		return 0, err
	}
	var buf [1]byte
	if err := e.dev.Tx([]byte{byte(addr >> 8), byte(addr)}, buf[:]); err != nil {
		return 0, fmt.Errorf("read eeprom at %d: %w", addr, err)
	}
	return buf[0], nil
}

func (e *EEPROM) WriteByteAt(addr int, b byte) error {
	if err := checkAddress(addr, e.size); err != nil {
		return err
	}
	if err := e.dev.Tx([]byte{byte(addr >> 8), byte(addr), b}, nil); err != nil {
		return fmt.Errorf("write eeprom at %d: %w", addr, err)
	}
	storeWrites.WithLabelValues("eeprom").Inc()
	// The chip ignores the bus until the write cycle finishes.
	e.wait(writeCycle)
	return nil
}

// Fill sets every byte to b a page at a time.
func (e *EEPROM) Fill(b byte) error {
	w := make([]byte, 2+pageSize)
	for i := 2; i < len(w); i++ {
		w[i] = b
	}
	for addr := 0; addr < e.size; addr += pageSize {
		n := pageSize
		if addr+n > e.size {
			n = e.size - addr
		}
		w[0], w[1] = byte(addr>>8), byte(addr)
		if err := e.dev.Tx(w[:2+n], nil); err != nil {
			return fmt.Errorf("write eeprom page at %d: %w", addr, err)
		}
		storeWrites.WithLabelValues("eeprom").Add(float64(n))
		e.wait(writeCycle)
	}
	return nil
}
