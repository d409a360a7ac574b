package clock

import "fmt"

// Positions on the 4-digit display, left to right.
const (
	HoursTens = iota
	HoursOnes
	MinutesTens
	MinutesOnes

	Positions
)

// Renderer drives a 4-digit 7-segment display.  A frame is a sequence of ShowDigit and ShowDash
// calls in position order followed by exactly one BlankAll; positions not shown in a frame are
// dark.
type Renderer interface {
	ShowDigit(pos, value int) error
	ShowDash(pos int) error
	BlankAll() error
	SetSeparator(on bool) error
}

// Glyph is what one display position shows.
type Glyph int

const (
	Blank Glyph = iota
	Digit
	Dash
)

// Cell is one display position of a frame.
type Cell struct {
	Glyph Glyph
	Value int // only for Digit
}

// Frame is the content of the whole display for one tick.
type Frame [Positions]Cell

func (f Frame) String() string {
	b := make([]byte, 0, Positions+1)
	for i, c := range f {
		if i == MinutesTens {
			b = append(b, ':')
		}
		switch c.Glyph {
		case Digit:
			b = append(b, byte('0'+c.Value))
		case Dash:
			b = append(b, '-')
		default:
			b = append(b, ' ')
		}
	}
	return string(b)
}

// setHours fills the hour pair, leaving the tens position dark when it is zero.
func (f *Frame) setHours(h int) {
	if h/10 != 0 {
		f[HoursTens] = Cell{Glyph: Digit, Value: h / 10}
	}
	f[HoursOnes] = Cell{Glyph: Digit, Value: h % 10}
}

func (f *Frame) setMinutes(m int) {
	f[MinutesTens] = Cell{Glyph: Digit, Value: m / 10}
	f[MinutesOnes] = Cell{Glyph: Digit, Value: m % 10}
}

func (f *Frame) setDashes(first int) {
	f[first] = Cell{Glyph: Dash}
	f[first+1] = Cell{Glyph: Dash}
}

// timeFrame shows t as hours and minutes.
func timeFrame(t Time) Frame {
	var f Frame
	f.setHours(t.Hours)
	f.setMinutes(t.Minutes)
	return f
}

// editFrame shows t with the half being edited visible only when lit is true.
func editFrame(t Time, step Step, lit bool) Frame {
	var f Frame
	if step != EditHours || lit {
		f.setHours(t.Hours)
	}
	if step != EditMinutes || lit {
		f.setMinutes(t.Minutes)
	}
	return f
}

// dashFrame shows dashes in place of a disabled alarm's time, blinking the half being edited.
func dashFrame(step Step, lit bool) Frame {
	var f Frame
	if step != EditHours || lit {
		f.setDashes(HoursTens)
	}
	if step != EditMinutes || lit {
		f.setDashes(MinutesTens)
	}
	return f
}

// draw sends f to r and ends the frame.
func draw(r Renderer, f Frame) error {
	for pos, c := range f {
		var err error
		switch c.Glyph {
		case Digit:
			err = r.ShowDigit(pos, c.Value)
		case Dash:
			err = r.ShowDash(pos)
		}
		if err != nil {
			return fmt.Errorf("draw position %d: %w", pos, err)
		}
	}
	if err := r.BlankAll(); err != nil {
		return fmt.Errorf("end frame: %w", err)
	}
	return nil
}
