package store

import (
	"fmt"

	"github.com/jrockway/alarm-clock/control/clock"
)

// Magic is stored at AddrMagic once the store has been initialized.
const Magic = 23

// Byte layout of the alarm configuration.
const (
	AddrMagic = iota
	AddrEnabled
	AddrHours
	AddrMinutes

	layoutSize
)

// Alarm stores clock.AlarmSettings in a Bytes.  It implements clock.AlarmStore.
type Alarm struct {
	b Bytes
}

// NewAlarm returns an Alarm backed by b.
func NewAlarm(b Bytes) (*Alarm, error) {
	if n := b.Len(); n < layoutSize {
		return nil, fmt.Errorf("store of %d bytes is too small for alarm settings (%d bytes)", n, layoutSize)
	}
	return &Alarm{b: b}, nil
}

// Load reads the alarm settings.  If the store has never been initialized, or holds settings
// that are out of range, it is erased, marked as initialized, and the default (disabled, 00:00)
// settings are returned.
func (a *Alarm) Load() (clock.AlarmSettings, error) {
	magic, err := a.b.ReadByteAt(AddrMagic)
	if err != nil {
		return clock.AlarmSettings{}, fmt.Errorf("read magic number: %w", err)
	}
	if magic != Magic {
		return clock.AlarmSettings{}, a.reset()
	}

	var raw [layoutSize]byte
	for addr := AddrEnabled; addr < layoutSize; addr++ {
		if raw[addr], err = a.b.ReadByteAt(addr); err != nil {
			return clock.AlarmSettings{}, fmt.Errorf("read address %d: %w", addr, err)
		}
	}
	settings := clock.AlarmSettings{
		RingTime: clock.Time{Hours: int(raw[AddrHours]), Minutes: int(raw[AddrMinutes])},
		Enabled:  raw[AddrEnabled] == 1,
	}
	if raw[AddrEnabled] > 1 || !settings.RingTime.Valid() {
		return clock.AlarmSettings{}, a.reset()
	}
	return settings, nil
}

// reset erases the store and writes the magic number.
func (a *Alarm) reset() error {
	if err := fill(a.b, 0); err != nil {
		return fmt.Errorf("erase store: %w", err)
	}
	if err := a.b.WriteByteAt(AddrMagic, Magic); err != nil {
		return fmt.Errorf("write magic number: %w", err)
	}
	return a.sync()
}

func (a *Alarm) sync() error {
	if s, ok := a.b.(Syncer); ok {
		if err := s.Sync(); err != nil {
			return fmt.Errorf("sync store: %w", err)
		}
	}
	return nil
}

// SaveRingTime stores the hours and minutes of t.
func (a *Alarm) SaveRingTime(t clock.Time) error {
	if err := a.b.WriteByteAt(AddrHours, byte(t.Hours)); err != nil {
		return fmt.Errorf("write hours: %w", err)
	}
	if err := a.b.WriteByteAt(AddrMinutes, byte(t.Minutes)); err != nil {
		return fmt.Errorf("write minutes: %w", err)
	}
	return a.sync()
}

// SaveEnabled stores whether the alarm is enabled.
func (a *Alarm) SaveEnabled(on bool) error {
	var b byte
	if on {
		b = 1
	}
	if err := a.b.WriteByteAt(AddrEnabled, b); err != nil {
		return fmt.Errorf("write enabled: %w", err)
	}
	return a.sync()
}
