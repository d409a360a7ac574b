package clock

import (
	"fmt"
	"time"

	"golang.org/x/net/trace"
)

// Mode is the top-level state of the controller.
type Mode int

const (
	Running Mode = iota
	SettingTime
	SettingAlarm
)

func (m Mode) String() string {
	switch m {
	case Running:
		return "running"
	case SettingTime:
		return "setting_time"
	case SettingAlarm:
		return "setting_alarm"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Step is the half of the time being edited in the setting modes.
type Step int

const (
	EditHours Step = iota
	EditMinutes
)

func (s Step) String() string {
	if s == EditMinutes {
		return "minutes"
	}
	return "hours"
}

// Edges holds the buttons that went from released to pressed since the last poll.
type Edges struct {
	Set, Plus, Minus, Alarm, Snooze bool
}

// Any reports whether any button was pressed.
func (e Edges) Any() bool {
	return e.Set || e.Plus || e.Minus || e.Alarm || e.Snooze
}

// Buttons samples the front-panel buttons.  Poll never blocks.
type Buttons interface {
	Poll() Edges
}

// refreshInterval is how often the clock source is read.
const refreshInterval = time.Second

// Controller is the mode state machine.  Each Tick reads the buttons, acts on them, and draws
// one frame.
type Controller struct {
	model   *Model
	buttons Buttons
	display Renderer
	events  trace.EventLog // may be nil

	mode Mode
	step Step

	now         Time      // current time as of the last refresh
	lastRefresh time.Time // host time of the last refresh; zero before the first
}

// NewController returns a controller in the running mode.
func NewController(m *Model, b Buttons, r Renderer) *Controller {
	return &Controller{model: m, buttons: b, display: r}
}

// Mode returns the current mode and edit step.
func (c *Controller) Mode() (Mode, Step) { return c.mode, c.step }

// Now returns the current time as of the last refresh.
func (c *Controller) Now() Time { return c.now }

func (c *Controller) logf(format string, args ...interface{}) {
	if c.events != nil {
		c.events.Printf(format, args...)
	}
}

// Tick runs one iteration of the control loop.  now is the host's clock and is only used to
// decide when to re-read the clock source.  An error means some hardware failed; the tick is
// abandoned.
func (c *Controller) Tick(now time.Time) error {
	if err := c.dispatch(c.buttons.Poll()); err != nil {
		return fmt.Errorf("handle buttons: %w", err)
	}
	if err := c.render(now); err != nil {
		return fmt.Errorf("render %v: %w", c.mode, err)
	}
	return nil
}

func (c *Controller) setMode(m Mode) {
	c.mode, c.step = m, EditHours
	modeTransitions.WithLabelValues(m.String()).Inc()
	c.logf("mode: %v", m)
}

func countEdges(e Edges) {
	for name, pressed := range map[string]bool{"set": e.Set, "plus": e.Plus, "minus": e.Minus, "alarm": e.Alarm, "snooze": e.Snooze} {
		if pressed {
			buttonEdges.WithLabelValues(name).Inc()
		}
	}
}

func (c *Controller) dispatch(e Edges) error {
	if !e.Any() {
		return nil
	}
	countEdges(e)

	// A ringing alarm eats the press, whatever the mode.
	if c.model.Ringing() {
		if err := c.model.SilenceAlarm(); err != nil {
			return err
		}
		alarmsSilenced.Inc()
		c.logf("alarm silenced at %v", c.now)
		return nil
	}

	switch c.mode {
	case Running:
		switch {
		case e.Set:
			if err := c.model.BeginEditing(false); err != nil {
				return err
			}
			c.setMode(SettingTime)
		case e.Alarm:
			if err := c.model.BeginEditing(true); err != nil {
				return err
			}
			c.setMode(SettingAlarm)
		}
	case SettingTime:
		return c.handleTimeSetting(e)
	case SettingAlarm:
		return c.handleAlarmSetting(e)
	}
	return nil
}

// adjust applies plus/minus to the half being edited and reports whether it did anything.
func (c *Controller) adjust(e Edges) bool {
	switch {
	case e.Plus && c.step == EditHours:
		c.model.IncrementHour()
	case e.Minus && c.step == EditHours:
		c.model.DecrementHour()
	case e.Plus:
		c.model.IncrementMinute()
	case e.Minus:
		c.model.DecrementMinute()
	default:
		return false
	}
	return true
}

func (c *Controller) handleTimeSetting(e Edges) error {
	if e.Set {
		if c.step == EditHours {
			c.step = EditMinutes
			return nil
		}
		if err := c.model.CommitAsClock(); err != nil {
			return err
		}
		c.logf("clock set to %v", c.model.SettingsTime())
		c.setMode(Running)
		return c.refreshTime()
	}
	c.adjust(e)
	return nil
}

func (c *Controller) handleAlarmSetting(e Edges) error {
	if e.Alarm {
		if c.step == EditHours {
			c.step = EditMinutes
			return nil
		}
		if err := c.model.CommitAsAlarm(); err != nil {
			return err
		}
		c.logf("alarm set to %v (enabled: %v)", c.model.AlarmSettings().RingTime, c.model.AlarmSettings().Enabled)
		c.setMode(Running)
		return c.refreshTime()
	}
	if c.adjust(e) {
		return nil
	}
	if e.Set {
		if err := c.model.ToggleAlarmEnabled(); err != nil {
			return err
		}
		c.logf("alarm enabled: %v", c.model.AlarmSettings().Enabled)
	}
	return nil
}

func (c *Controller) refreshTime() error {
	t, err := c.model.CurrentTime()
	if err != nil {
		return err
	}
	c.now = t
	return nil
}

// refreshDue reports whether the clock source should be read at host time now.  The schedule
// advances a second at a time so that a steady tick rate sees every second of the clock
// source; it restarts from now after a stall.
func (c *Controller) refreshDue(now time.Time) bool {
	if c.lastRefresh.IsZero() {
		c.lastRefresh = now
		return true
	}
	elapsed := now.Sub(c.lastRefresh)
	if elapsed < refreshInterval {
		return false
	}
	if elapsed < 2*refreshInterval {
		c.lastRefresh = c.lastRefresh.Add(refreshInterval)
	} else {
		c.lastRefresh = now
	}
	return true
}

func (c *Controller) render(now time.Time) error {
	due := c.refreshDue(now)
	if due {
		if err := c.refreshTime(); err != nil {
			return err
		}
	}
	if c.mode == Running {
		if due {
			if err := c.display.SetSeparator(c.now.Seconds%2 == 0); err != nil {
				return fmt.Errorf("set separator: %w", err)
			}
		}
	} else if err := c.display.SetSeparator(false); err != nil {
		return fmt.Errorf("set separator: %w", err)
	}
	if due {
		wasRinging := c.model.Ringing()
		fired, err := c.model.CheckAlarm(c.now)
		if err != nil {
			return err
		}
		if fired && !wasRinging {
			alarmsFired.Inc()
			c.logf("alarm ringing at %v", c.now)
		}
	}
	return draw(c.display, c.frame())
}

// frame returns what the display should show in the current state.
func (c *Controller) frame() Frame {
	lit := c.now.Seconds%2 == 0
	switch c.mode {
	case SettingTime:
		return editFrame(c.model.SettingsTime(), c.step, lit)
	case SettingAlarm:
		if !c.model.AlarmSettings().Enabled {
			return dashFrame(c.step, lit)
		}
		return editFrame(c.model.SettingsTime(), c.step, lit)
	}
	return timeFrame(c.now)
}
