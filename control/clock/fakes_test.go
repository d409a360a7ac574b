package clock

import (
	"errors"
	"strings"
)

type fakeSource struct {
	now    Time
	writes []Time
	reads  int
	err    error
}

func (s *fakeSource) Read() (Time, error) {
	s.reads++
	if s.err != nil {
		return Time{}, s.err
	}
	return s.now, nil
}

func (s *fakeSource) Write(t Time) error {
	if s.err != nil {
		return s.err
	}
	s.writes = append(s.writes, t)
	s.now = t
	return nil
}

type fakeStore struct {
	settings     AlarmSettings
	timeWrites   int
	enableWrites int
}

func (s *fakeStore) Load() (AlarmSettings, error) { return s.settings, nil }

func (s *fakeStore) SaveRingTime(t Time) error {
	s.settings.RingTime = t
	s.timeWrites++
	return nil
}

func (s *fakeStore) SaveEnabled(on bool) error {
	s.settings.Enabled = on
	s.enableWrites++
	return nil
}

type fakeAlarm struct {
	sounding bool
	changes  int
}

func (a *fakeAlarm) SetSounding(on bool) error {
	a.sounding = on
	a.changes++
	return nil
}

// fakeButtons returns queued edges, one set per poll, then nothing.
type fakeButtons struct {
	queue []Edges
}

func (b *fakeButtons) Poll() Edges {
	if len(b.queue) == 0 {
		return Edges{}
	}
	e := b.queue[0]
	b.queue = b.queue[1:]
	return e
}

func (b *fakeButtons) press(e ...Edges) { b.queue = append(b.queue, e...) }

// recorder keeps what the last complete frame showed, as a string like "13:51".
type recorder struct {
	cur       [Positions]byte
	frames    []string
	separator bool
	fail      error
}

func newRecorder() *recorder {
	r := &recorder{}
	r.reset()
	return r
}

func (r *recorder) reset() {
	for i := range r.cur {
		r.cur[i] = ' '
	}
}

func (r *recorder) ShowDigit(pos, value int) error {
	if r.fail != nil {
		return r.fail
	}
	r.cur[pos] = byte('0' + value)
	return nil
}

func (r *recorder) ShowDash(pos int) error {
	r.cur[pos] = '-'
	return nil
}

func (r *recorder) BlankAll() error {
	r.frames = append(r.frames, string(r.cur[:2])+":"+string(r.cur[2:]))
	r.reset()
	return nil
}

func (r *recorder) SetSeparator(on bool) error {
	r.separator = on
	return nil
}

func (r *recorder) last() string {
	if len(r.frames) == 0 {
		return ""
	}
	return r.frames[len(r.frames)-1]
}

func (r *recorder) String() string { return strings.Join(r.frames, "|") }

var errHardware = errors.New("hardware fault")
