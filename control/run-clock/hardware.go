package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/jrockway/alarm-clock/control/buttons"
	"github.com/jrockway/alarm-clock/control/clock"
	"github.com/jrockway/alarm-clock/control/config"
	"github.com/jrockway/alarm-clock/control/display"
	"github.com/jrockway/alarm-clock/control/rtc"
	"github.com/jrockway/alarm-clock/control/store"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// hardware is everything the clock talks to.
type hardware struct {
	rtc     *rtc.DS3231
	store   *store.Alarm
	buttons *buttons.Sampler
	display clock.Renderer
	blank   func() error
	closers []io.Closer
}

// Close releases the hardware in reverse order of acquisition.
func (h *hardware) Close() error {
	var errs []error
	for i := len(h.closers) - 1; i >= 0; i-- {
		if err := h.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func pin(name string) (gpio.PinIO, error) {
	if name == "" {
		return nil, nil
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("no gpio pin named %q", name)
	}
	return p, nil
}

func requiredPin(name string) (gpio.PinIO, error) {
	if name == "" {
		return nil, errors.New("pin name is empty")
	}
	return pin(name)
}

// openStore returns the byte store the config asks for.
func openStore(c config.StoreConfig, bus i2c.Bus) (store.Bytes, io.Closer, error) {
	switch c.Kind {
	case config.StoreEEPROM:
		return store.NewEEPROM(bus, c.Address, c.Size), nil, nil
	case config.StoreFile:
		f, err := store.OpenFile(c.Path, c.Size)
		if err != nil {
			return nil, nil, err
		}
		return f, f, nil
	case config.StoreMemory:
		log.Printf("alarm settings are kept in memory and will not survive a restart")
		return store.NewMemory(c.Size), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown store kind %q", c.Kind)
}

// openDisplay returns the display, a function that blanks it, and anything that must be closed
// when the display is no longer used.
func openDisplay(c config.DisplayConfig, digitDelay time.Duration) (clock.Renderer, func() error, io.Closer, error) {
	switch c.Kind {
	case config.DisplayShiftRegister:
		var pins display.ShiftRegisterPins
		var err error
		if pins.SER, err = requiredPin(c.SER); err != nil {
			return nil, nil, nil, fmt.Errorf("ser: %w", err)
		}
		if pins.SRCLK, err = requiredPin(c.SRCLK); err != nil {
			return nil, nil, nil, fmt.Errorf("srclk: %w", err)
		}
		if pins.RCLK, err = requiredPin(c.RCLK); err != nil {
			return nil, nil, nil, fmt.Errorf("rclk: %w", err)
		}
		for i, name := range c.Digits {
			if i >= len(pins.Digits) {
				break
			}
			if pins.Digits[i], err = requiredPin(name); err != nil {
				return nil, nil, nil, fmt.Errorf("digit %d: %w", i, err)
			}
		}
		sep, err := pin(c.Separator)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("separator: %w", err)
		}
		if sep != nil {
			pins.Separator = sep
		}
		sr, err := display.NewShiftRegister(pins, digitDelay)
		if err != nil {
			return nil, nil, nil, err
		}
		return sr, func() error {
			if err := sr.SetSeparator(false); err != nil {
				return err
			}
			return sr.BlankAll()
		}, nil, nil
	case config.DisplayTM1637:
		clk, err := requiredPin(c.CLK)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("clk: %w", err)
		}
		dio, err := requiredPin(c.DIO)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("dio: %w", err)
		}
		d, err := display.NewTM1637(clk, dio)
		if err != nil {
			return nil, nil, nil, err
		}
		return d, d.Halt, nil, nil
	case config.DisplayMAX7219:
		port, err := spireg.Open(c.SPIPort)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open spi port %q: %w", c.SPIPort, err)
		}
		sc, err := port.Connect(physic.MegaHertz, spi.Mode0, 8)
		if err != nil {
			port.Close()
			return nil, nil, nil, fmt.Errorf("connect to spi port %q: %w", c.SPIPort, err)
		}
		d, err := display.NewMAX7219(sc, c.Brightness)
		if err != nil {
			port.Close()
			return nil, nil, nil, err
		}
		return d, d.Halt, port, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown display kind %q", c.Kind)
}

func openButtons(c config.ButtonsConfig) (*buttons.Sampler, error) {
	var p buttons.Pins
	for _, b := range []struct {
		name     string
		pin      string
		required bool
		dst      *gpio.PinIn
	}{
		{"set", c.Set, true, &p.Set},
		{"plus", c.Plus, true, &p.Plus},
		{"minus", c.Minus, true, &p.Minus},
		{"alarm", c.Alarm, false, &p.Alarm},
		{"snooze", c.Snooze, false, &p.Snooze},
	} {
		get := pin
		if b.required {
			get = requiredPin
		}
		gp, err := get(b.pin)
		if err != nil {
			return nil, fmt.Errorf("%s button: %w", b.name, err)
		}
		if gp != nil {
			*b.dst = gp
		}
	}
	return buttons.New(p, c.ActiveLow)
}

// openHardware opens every device in the config that hangs off bus or a GPIO pin.
func openHardware(c *config.Config, bus i2c.Bus) (*hardware, error) {
	h := &hardware{rtc: rtc.New(bus, c.RTCAddress)}

	bytes, closer, err := openStore(c.Store, bus)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if closer != nil {
		h.closers = append(h.closers, closer)
	}
	if h.store, err = store.NewAlarm(bytes); err != nil {
		h.Close()
		return nil, fmt.Errorf("open alarm settings: %w", err)
	}

	if h.display, h.blank, closer, err = openDisplay(c.Display, c.DigitDelay); err != nil {
		h.Close()
		return nil, fmt.Errorf("init display: %w", err)
	}
	if closer != nil {
		h.closers = append(h.closers, closer)
	}

	if h.buttons, err = openButtons(c.Buttons); err != nil {
		h.Close()
		return nil, fmt.Errorf("init buttons: %w", err)
	}
	return h, nil
}
