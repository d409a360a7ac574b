package clock

import "fmt"

// Source is a real-time clock chip.
type Source interface {
	Read() (Time, error)
	Write(Time) error
}

// AlarmStore persists the alarm configuration across power loss.
type AlarmStore interface {
	Load() (AlarmSettings, error)
	SaveRingTime(Time) error
	SaveEnabled(bool) error
}

// Alarm is the physical alarm output (a buzzer).
type Alarm interface {
	SetSounding(on bool) error
}

// Model owns the clock's time state: the staging copy edited in the setting modes, the alarm
// configuration, and whether the alarm is ringing.  It is not safe for concurrent use; the
// controller loop is its only user.
type Model struct {
	source Source
	store  AlarmStore
	output Alarm

	settings Time
	alarm    AlarmSettings
	ringing  bool

	// firedAt is the minute the alarm last fired, while it is still that minute.  The clock
	// source can read the same second twice, and a silenced alarm must not ring again.
	firedAt  Time
	hasFired bool
}

// NewModel loads the alarm configuration from store and drives the alarm output off.
func NewModel(source Source, store AlarmStore, output Alarm) (*Model, error) {
	alarm, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load alarm settings: %w", err)
	}
	alarm.RingTime.Seconds = 0
	if err := output.SetSounding(false); err != nil {
		return nil, fmt.Errorf("reset alarm output: %w", err)
	}
	return &Model{source: source, store: store, output: output, alarm: alarm}, nil
}

// CurrentTime reads the clock source.
func (m *Model) CurrentTime() (Time, error) {
	clockSourceReads.Inc()
	t, err := m.source.Read()
	if err != nil {
		return Time{}, fmt.Errorf("read clock source: %w", err)
	}
	return t, nil
}

// SetCurrentTime sets the clock source.
func (m *Model) SetCurrentTime(t Time) error {
	if err := m.source.Write(t); err != nil {
		return fmt.Errorf("write clock source: %w", err)
	}
	return nil
}

// BeginEditing seeds the settings time from the alarm's ring time or from the current time,
// discarding any edit in progress.  Seconds are always zeroed.
func (m *Model) BeginEditing(forAlarm bool) error {
	if forAlarm {
		m.settings = m.alarm.RingTime
	} else {
		now, err := m.CurrentTime()
		if err != nil {
			return err
		}
		m.settings = now
	}
	m.settings.Seconds = 0
	return nil
}

func (m *Model) IncrementHour()   { m.settings.Hours = wrap(m.settings.Hours, 1, hoursInDay) }
func (m *Model) DecrementHour()   { m.settings.Hours = wrap(m.settings.Hours, -1, hoursInDay) }
func (m *Model) IncrementMinute() { m.settings.Minutes = wrap(m.settings.Minutes, 1, minutesInHour) }
func (m *Model) DecrementMinute() { m.settings.Minutes = wrap(m.settings.Minutes, -1, minutesInHour) }

// SettingsTime returns the time being edited.
func (m *Model) SettingsTime() Time { return m.settings }

// AlarmSettings returns the alarm configuration.
func (m *Model) AlarmSettings() AlarmSettings { return m.alarm }

// CommitAsClock sets the clock source to the settings time.
func (m *Model) CommitAsClock() error {
	return m.SetCurrentTime(m.settings)
}

// CommitAsAlarm makes the settings time the alarm's ring time and persists it.
func (m *Model) CommitAsAlarm() error {
	t := m.settings
	t.Seconds = 0
	m.alarm.RingTime = t
	if err := m.store.SaveRingTime(t); err != nil {
		return fmt.Errorf("save alarm time: %w", err)
	}
	return nil
}

// ToggleAlarmEnabled flips whether the alarm is enabled and persists it.
func (m *Model) ToggleAlarmEnabled() error {
	m.alarm.Enabled = !m.alarm.Enabled
	if err := m.store.SaveEnabled(m.alarm.Enabled); err != nil {
		return fmt.Errorf("save alarm enabled: %w", err)
	}
	return nil
}

// CheckAlarm starts the alarm ringing if it is enabled and now is exactly its ring time.  It
// only fires on second zero, so it must be called at least once a second to be reliable, and it
// fires at most once per ring minute.  It reports whether the alarm fired.
func (m *Model) CheckAlarm(now Time) (bool, error) {
	sameMinute := now.Hours == m.firedAt.Hours && now.Minutes == m.firedAt.Minutes
	if m.hasFired && !sameMinute {
		m.hasFired = false
	}
	if !m.alarm.Enabled || now.Seconds != 0 || m.hasFired {
		return false, nil
	}
	if now.Hours != m.alarm.RingTime.Hours || now.Minutes != m.alarm.RingTime.Minutes {
		return false, nil
	}
	if err := m.output.SetSounding(true); err != nil {
		return false, fmt.Errorf("sound alarm: %w", err)
	}
	m.ringing = true
	m.firedAt, m.hasFired = Time{Hours: now.Hours, Minutes: now.Minutes}, true
	return true, nil
}

// Ringing reports whether the alarm is ringing.
func (m *Model) Ringing() bool { return m.ringing }

// SilenceAlarm stops the alarm ringing.
func (m *Model) SilenceAlarm() error {
	if err := m.output.SetSounding(false); err != nil {
		return fmt.Errorf("silence alarm: %w", err)
	}
	m.ringing = false
	return nil
}
