package clock

import (
	"fmt"
	"time"
)

const (
	hoursInDay    = 24
	minutesInHour = 60
)

// Time is a time of day with one-second resolution.
type Time struct {
	Hours   int
	Minutes int
	Seconds int
}

// FromTime returns the time of day of t.
func FromTime(t time.Time) Time {
	h, m, s := t.Clock()
	return Time{Hours: h, Minutes: m, Seconds: s}
}

// ParseTime parses a time of day in the form "15:04:05" or "15:04".
func ParseTime(s string) (Time, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return FromTime(t), nil
		}
	}
	return Time{}, fmt.Errorf("parse time of day %q: want HH:MM:SS or HH:MM", s)
}

// Valid reports whether every field of t is in range.
func (t Time) Valid() bool {
	return t.Hours >= 0 && t.Hours < hoursInDay &&
		t.Minutes >= 0 && t.Minutes < minutesInHour &&
		t.Seconds >= 0 && t.Seconds < 60
}

func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hours, t.Minutes, t.Seconds)
}

// wrap steps v by delta modulo mod, always returning a value in [0, mod).
func wrap(v, delta, mod int) int {
	return ((v+delta)%mod + mod) % mod
}

// AlarmSettings is the stored alarm configuration.  The seconds of RingTime are always zero.
type AlarmSettings struct {
	RingTime Time
	Enabled  bool
}
