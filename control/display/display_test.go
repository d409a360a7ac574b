package display

import (
	"bytes"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// hookedPin is a gpiotest.Pin that reports level changes.
type hookedPin struct {
	*gpiotest.Pin
	onChange func(from, to gpio.Level)
}

func (p *hookedPin) Out(l gpio.Level) error {
	from := p.Pin.Read()
	if err := p.Pin.Out(l); err != nil {
		return err
	}
	if p.onChange != nil {
		p.onChange(from, l)
	}
	return nil
}

type lit struct {
	Pos      int
	Segments byte
}

// bench simulates a 74HC595 and records which digit was lit with which segments.
type bench struct {
	ser, srclk, rclk *hookedPin
	digits           [Positions]*hookedPin
	separator        *hookedPin

	shiftReg, latch byte
	lit             []lit
	sleeps          []time.Duration
}

func newBench() *bench {
	b := new(bench)
	pin := func(name string) *hookedPin { return &hookedPin{Pin: &gpiotest.Pin{N: name}} }
	b.ser, b.srclk, b.rclk, b.separator = pin("SER"), pin("SRCLK"), pin("RCLK"), pin("DOTS")
	b.srclk.onChange = func(from, to gpio.Level) {
		if !from && to {
			b.shiftReg <<= 1
			if b.ser.Read() {
				b.shiftReg |= 1
			}
		}
	}
	b.rclk.onChange = func(from, to gpio.Level) {
		if !from && to {
			b.latch = b.shiftReg
		}
	}
	for i := range b.digits {
		i := i
		b.digits[i] = pin("DIGIT")
		b.digits[i].onChange = func(from, to gpio.Level) {
			if !from && to {
				b.lit = append(b.lit, lit{Pos: i, Segments: b.latch})
			}
		}
	}
	return b
}

func (b *bench) display(t *testing.T) *ShiftRegister {
	t.Helper()
	pins := ShiftRegisterPins{SER: b.ser, SRCLK: b.srclk, RCLK: b.rclk, Separator: b.separator}
	for i, p := range b.digits {
		pins.Digits[i] = p
	}
	s, err := NewShiftRegister(pins, time.Millisecond)
	if err != nil {
		t.Fatalf("new shift register: %v", err)
	}
	s.sleep = func(d time.Duration) { b.sleeps = append(b.sleeps, d) }
	return s
}

func TestShiftRegister(t *testing.T) {
	b := newBench()
	s := b.display(t)

	if err := s.ShowDigit(1, 9); err != nil {
		t.Fatal(err)
	}
	if err := s.ShowDigit(2, 4); err != nil {
		t.Fatal(err)
	}
	if err := s.ShowDash(3); err != nil {
		t.Fatal(err)
	}
	if err := s.BlankAll(); err != nil {
		t.Fatal(err)
	}

	want := []lit{
		{Pos: 1, Segments: segA | segB | segC | segD | segF | segG},
		{Pos: 2, Segments: segB | segC | segF | segG},
		{Pos: 3, Segments: segG},
	}
	if diff := cmp.Diff(b.lit, want); diff != "" {
		t.Errorf("lit digits (-got +want):\n%s", diff)
	}
	for i, d := range b.digits {
		if d.Read() {
			t.Errorf("digit %d still on after BlankAll", i)
		}
	}
	wantSleeps := []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond, time.Millisecond}
	if diff := cmp.Diff(b.sleeps, wantSleeps); diff != "" {
		t.Errorf("sleeps (-got +want):\n%s", diff)
	}
}

func TestShiftRegisterSeparator(t *testing.T) {
	b := newBench()
	s := b.display(t)
	if err := s.SetSeparator(true); err != nil {
		t.Fatal(err)
	}
	if got, want := b.separator.Read(), gpio.High; got != want {
		t.Errorf("separator:\n  got: %v\n want: %v", got, want)
	}
}

func TestShiftRegisterRange(t *testing.T) {
	s := newBench().display(t)
	if err := s.ShowDigit(4, 1); err == nil {
		t.Error("expected error for position 4")
	}
	if err := s.ShowDigit(0, 10); err == nil {
		t.Error("expected error for digit 10")
	}
	if err := s.ShowDash(-1); err == nil {
		t.Error("expected error for position -1")
	}
}

func TestNewShiftRegisterMissingPins(t *testing.T) {
	if _, err := NewShiftRegister(ShiftRegisterPins{}, time.Millisecond); err == nil {
		t.Error("expected error with no pins")
	}
}

type writes [][]byte

func (w *writes) Write(b []byte) (int, error) {
	*w = append(*w, append([]byte(nil), b...))
	return len(b), nil
}

func TestTM1637(t *testing.T) {
	w := new(writes)
	d := &TM1637{w: w}
	frame := func() {
		if err := d.ShowDigit(1, 7); err != nil {
			t.Fatal(err)
		}
		if err := d.ShowDigit(2, 0); err != nil {
			t.Fatal(err)
		}
		if err := d.ShowDigit(3, 5); err != nil {
			t.Fatal(err)
		}
		if err := d.BlankAll(); err != nil {
			t.Fatal(err)
		}
	}
	frame()
	frame()
	if err := d.SetSeparator(true); err != nil {
		t.Fatal(err)
	}
	frame()

	seven, zero, five := digitSegments[7], digitSegments[0], digitSegments[5]
	want := writes{
		{0, seven, zero, five},
		{0, seven | segDP, zero, five},
	}
	if diff := cmp.Diff(*w, want); diff != "" {
		t.Errorf("writes (-got +want):\n%s", diff)
	}
}

func TestPreview(t *testing.T) {
	p := NewPreview()
	r := Multi{p}
	if err := r.SetSeparator(true); err != nil {
		t.Fatal(err)
	}
	if err := r.ShowDigit(1, 9); err != nil {
		t.Fatal(err)
	}
	if err := r.ShowDigit(2, 4); err != nil {
		t.Fatal(err)
	}
	if err := r.ShowDash(3); err != nil {
		t.Fatal(err)
	}
	if got, want := p.Text(), "     "; got != want {
		t.Errorf("text before frame ends:\n  got: %q\n want: %q", got, want)
	}
	if err := r.BlankAll(); err != nil {
		t.Fatal(err)
	}
	if got, want := p.Text(), " 9:4-"; got != want {
		t.Errorf("text:\n  got: %q\n want: %q", got, want)
	}

	req := httptest.NewRequest("GET", "/display.png", nil)
	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, req)
	if got, want := rec.Code, http.StatusOK; got != want {
		t.Errorf("response code:\n  got: %v\n want: %v", got, want)
	}
	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if got := img.Bounds().Dx(); got == 0 {
		t.Error("empty image")
	}
}

func TestMAX7219(t *testing.T) {
	w := func(reg, v byte) conntest.IO { return conntest.IO{W: []byte{reg, v}} }
	pb := &conntest.Playback{Ops: []conntest.IO{
		// init
		w(0x0b, 0x03), w(0x09, 0xff), w(0x0f, 0x00), w(0x0c, 0x01), w(0x0a, 0x02),
		// " 9:41"
		w(0x04, 0x0f), w(0x03, 0x89), w(0x02, 0x04), w(0x01, 0x01),
		// " 9:4-"; only the last digit changes.
		w(0x01, 0x0a),
		// halt
		w(0x04, 0x0f), w(0x03, 0x0f), w(0x02, 0x0f), w(0x01, 0x8f),
	}}
	m, err := NewMAX7219(pb, 2)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := m.SetSeparator(true); err != nil {
		t.Fatal(err)
	}
	for _, digits := range [][]int{{9, 4, 1}, {9, 4, -1}} {
		for i, d := range digits {
			pos := i + 1
			if d < 0 {
				err = m.ShowDash(pos)
			} else {
				err = m.ShowDigit(pos, d)
			}
			if err != nil {
				t.Fatal(err)
			}
		}
		if err := m.BlankAll(); err != nil {
			t.Fatalf("draw %v: %v", digits, err)
		}
	}
	if err := m.Halt(); err != nil {
		t.Fatalf("halt: %v", err)
	}
	if err := pb.Close(); err != nil {
		t.Errorf("playback: %v", err)
	}
}

func TestMAX7219Brightness(t *testing.T) {
	if _, err := NewMAX7219(&conntest.Playback{}, 16); err == nil {
		t.Error("expected error for brightness 16")
	}
}
