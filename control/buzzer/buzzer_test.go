package buzzer

import (
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func TestSetSounding(t *testing.T) {
	pin := &gpiotest.Pin{N: "BUZZER"}
	b := New(pin)
	for _, on := range []bool{true, false, true} {
		if err := b.SetSounding(on); err != nil {
			t.Fatalf("set sounding %v: %v", on, err)
		}
		if got, want := pin.Read(), gpio.Level(on); got != want {
			t.Errorf("pin level:\n  got: %v\n want: %v", got, want)
		}
		if got, want := b.Sounding(), on; got != want {
			t.Errorf("sounding:\n  got: %v\n want: %v", got, want)
		}
	}
}

func TestNoPin(t *testing.T) {
	b := New(nil)
	if err := b.SetSounding(true); err != nil {
		t.Fatal(err)
	}
	if !b.Sounding() {
		t.Error("silent buzzer did not track state")
	}
}
