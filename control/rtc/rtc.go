// Package rtc reads and sets the time of day on a DS3231 real-time clock:
// https://datasheets.maximintegrated.com/en/ds/DS3231.pdf
//
// Only the seconds, minutes and hours registers are used; the date is left alone.
package rtc

import (
	"fmt"

	"github.com/jrockway/alarm-clock/control/clock"
	"periph.io/x/conn/v3/i2c"
)

// DefaultAddress is the DS3231's fixed I2C address.
const DefaultAddress = 0x68

type Register uint8

const (
	RegisterSeconds Register = 0x00
	RegisterMinutes Register = 0x01
	RegisterHours   Register = 0x02
)

const (
	hours12  = 0b0100_0000 // 12-hour mode select in the hours register
	hoursPM  = 0b0010_0000 // PM bit in 12-hour mode
	hours12M = 0b0001_1111 // hour bits in 12-hour mode
	hours24M = 0b0011_1111 // hour bits in 24-hour mode
)

// DS3231 is a clock.Source backed by a DS3231 chip.
type DS3231 struct {
	dev i2c.Dev
}

// New returns a DS3231 at addr on bus.
func New(bus i2c.Bus, addr uint16) *DS3231 {
	return &DS3231{dev: i2c.Dev{Bus: bus, Addr: addr}}
}

// Read returns the time of day.  Register contents are not range-checked.
func (d *DS3231) Read() (clock.Time, error) {
	var buf [3]byte
	if err := d.dev.Tx([]byte{byte(RegisterSeconds)}, buf[:]); err != nil {
		return clock.Time{}, fmt.Errorf("read time registers: %w", err)
	}
	return clock.Time{
		Hours:   decodeHours(buf[2]),
		Minutes: bcdToDec(buf[1] & 0x7f),
		Seconds: bcdToDec(buf[0] & 0x7f),
	}, nil
}

// Write sets the time of day, selecting 24-hour mode.
func (d *DS3231) Write(t clock.Time) error {
	if !t.Valid() {
		return fmt.Errorf("write time %v: out of range", t)
	}
	w := []byte{byte(RegisterSeconds), decToBCD(t.Seconds), decToBCD(t.Minutes), decToBCD(t.Hours)}
	if err := d.dev.Tx(w, nil); err != nil {
		return fmt.Errorf("write time registers: %w", err)
	}
	return nil
}

func decodeHours(b byte) int {
	if b&hours12 == 0 {
		return bcdToDec(b & hours24M)
	}
	h := bcdToDec(b&hours12M) % 12
	if b&hoursPM != 0 {
		h += 12
	}
	return h
}

func bcdToDec(x byte) int {
	return int(x) - 6*(int(x)>>4)
}

func decToBCD(x int) byte {
	return byte((x / 10 * 16) + (x % 10))
}
