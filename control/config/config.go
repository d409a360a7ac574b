// Package config loads the alarm clock's hardware configuration.
//
// The configuration is one YAML file.  Every field has a default, so an empty file describes the
// reference board: DS3231 and AT24C32 on the first I2C bus, a shift-register display, and
// active-low buttons.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jrockway/alarm-clock/control/clock"
	"github.com/jrockway/alarm-clock/control/rtc"
	"github.com/jrockway/alarm-clock/control/store"
	"gopkg.in/yaml.v3"
)

// Config is the whole configuration.
type Config struct {
	// Bind is the address of the debug and metrics HTTP server.
	Bind string `yaml:"bind"`

	// I2CBus is the periph.io name of the bus with the RTC and EEPROM; empty means the first bus.
	I2CBus string `yaml:"i2c_bus"`

	// RTCAddress is the DS3231's I2C address.
	RTCAddress uint16 `yaml:"rtc_address"`

	// InitialTime, if set, is written to the RTC at startup (HH:MM:SS).
	InitialTime string `yaml:"initial_time"`

	// FrameInterval is how often the display is redrawn.
	FrameInterval time.Duration `yaml:"frame_interval"`

	// DigitDelay is how long each digit of a multiplexed display is lit per frame.
	DigitDelay time.Duration `yaml:"digit_delay"`

	Store   StoreConfig   `yaml:"store"`
	Display DisplayConfig `yaml:"display"`
	Buttons ButtonsConfig `yaml:"buttons"`

	// Buzzer is the GPIO pin of the alarm sounder; empty runs silent.
	Buzzer string `yaml:"buzzer"`
}

// Store kinds.
const (
	StoreEEPROM = "eeprom"
	StoreFile   = "file"
	StoreMemory = "memory"
)

// StoreConfig selects where the alarm settings are kept.
type StoreConfig struct {
	Kind    string `yaml:"kind"`
	Address uint16 `yaml:"address"` // eeprom only
	Path    string `yaml:"path"`    // file only
	Size    int    `yaml:"size"`
}

// Display kinds.
const (
	DisplayShiftRegister = "shift-register"
	DisplayTM1637        = "tm1637"
	DisplayMAX7219       = "max7219"
)

// DisplayConfig names the display's pins.
type DisplayConfig struct {
	Kind string `yaml:"kind"`

	// shift-register
	SER       string   `yaml:"ser"`
	SRCLK     string   `yaml:"srclk"`
	RCLK      string   `yaml:"rclk"`
	Digits    []string `yaml:"digits"`
	Separator string   `yaml:"separator"`

	// tm1637
	CLK string `yaml:"clk"`
	DIO string `yaml:"dio"`

	// max7219; an empty SPI port means the first one.
	SPIPort    string `yaml:"spi_port"`
	Brightness int    `yaml:"brightness"`
}

// ButtonsConfig names the button pins.  Alarm and Snooze are optional.
type ButtonsConfig struct {
	Set       string `yaml:"set"`
	Plus      string `yaml:"plus"`
	Minus     string `yaml:"minus"`
	Alarm     string `yaml:"alarm"`
	Snooze    string `yaml:"snooze"`
	ActiveLow bool   `yaml:"active_low"`
}

// Default returns the configuration of the reference board.
func Default() *Config {
	return &Config{
		Bind:          ":8080",
		RTCAddress:    rtc.DefaultAddress,
		FrameInterval: 4 * time.Millisecond,
		DigitDelay:    time.Millisecond,
		Store: StoreConfig{
			Kind:    StoreEEPROM,
			Address: store.EEPROMAddress,
			Size:    store.EEPROMSize,
		},
		Display: DisplayConfig{
			Kind:       DisplayShiftRegister,
			SER:        "P9_12",
			SRCLK:      "P9_15",
			RCLK:       "P9_23",
			Digits:     []string{"P8_7", "P8_8", "P8_9", "P8_10"},
			Separator:  "P8_11",
			Brightness: 1,
		},
		Buttons: ButtonsConfig{
			Set:       "P8_14",
			Plus:      "P8_15",
			Minus:     "P8_16",
			Alarm:     "P8_17",
			Snooze:    "P8_18",
			ActiveLow: true,
		},
		Buzzer: "P9_27",
	}
}

// Parse reads YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads the file at path.  An empty path means the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		c := Default()
		return c, c.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Validate checks that the configuration describes a complete clock.
func (c *Config) Validate() error {
	var errs []error
	if c.FrameInterval <= 0 {
		errs = append(errs, fmt.Errorf("frame_interval must be positive, not %v", c.FrameInterval))
	}
	if c.DigitDelay < 0 {
		errs = append(errs, fmt.Errorf("digit_delay must not be negative, not %v", c.DigitDelay))
	}
	if c.InitialTime != "" {
		if _, err := clock.ParseTime(c.InitialTime); err != nil {
			errs = append(errs, fmt.Errorf("initial_time: %w", err))
		}
	}

	switch c.Store.Kind {
	case StoreEEPROM, StoreMemory:
	case StoreFile:
		if c.Store.Path == "" {
			errs = append(errs, errors.New("store: file store needs a path"))
		}
	default:
		errs = append(errs, fmt.Errorf("store: unknown kind %q", c.Store.Kind))
	}
	if c.Store.Size < 4 {
		errs = append(errs, fmt.Errorf("store: size %d is too small to hold the alarm settings", c.Store.Size))
	}

	switch c.Display.Kind {
	case DisplayShiftRegister:
		if c.Display.SER == "" || c.Display.SRCLK == "" || c.Display.RCLK == "" {
			errs = append(errs, errors.New("display: shift register needs ser, srclk and rclk pins"))
		}
		if len(c.Display.Digits) != 4 {
			errs = append(errs, fmt.Errorf("display: need 4 digit pins, got %d", len(c.Display.Digits)))
		}
	case DisplayTM1637:
		if c.Display.CLK == "" || c.Display.DIO == "" {
			errs = append(errs, errors.New("display: tm1637 needs clk and dio pins"))
		}
	case DisplayMAX7219:
		if c.Display.Brightness < 0 || c.Display.Brightness > 15 {
			errs = append(errs, fmt.Errorf("display: brightness %d is not 0-15", c.Display.Brightness))
		}
	default:
		errs = append(errs, fmt.Errorf("display: unknown kind %q", c.Display.Kind))
	}

	if c.Buttons.Set == "" || c.Buttons.Plus == "" || c.Buttons.Minus == "" {
		errs = append(errs, errors.New("buttons: set, plus and minus pins are required"))
	}
	return errors.Join(errs...)
}
