// Package clock is the alarm clock's brain: the time and alarm model, and the state machine that
// switches between showing the time, setting the time, and setting the alarm.
package clock

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/net/trace"
)

var (
	missedFramesCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "missed_frames",
		Help: "count of frames that were skipped because an earlier frame ran long",
	})

	frameDelayMetric = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "frame_delay",
		Help:    "amount of time between when a frame was scheduled and when it started, in nanoseconds",
		Buckets: prometheus.ExponentialBuckets(1000, 10, 8),
	})

	buttonEdges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "button_edges",
		Help: "count of debounced button presses",
	}, []string{"button"})

	modeTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mode_transitions",
		Help: "count of transitions into each controller mode",
	}, []string{"mode"})

	alarmsFired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alarms_fired",
		Help: "count of times the alarm started ringing",
	})

	alarmsSilenced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alarms_silenced",
		Help: "count of times a button press silenced the alarm",
	})

	clockSourceReads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clock_source_reads",
		Help: "count of reads from the real-time clock",
	})
)

// Run ticks the controller every interval until the context is cancelled or a tick fails.
// Frames that cannot start on time are dropped rather than queued, and counted in
// missedFramesCounter.
func (c *Controller) Run(ctx context.Context, interval time.Duration) error {
	c.events = trace.NewEventLog("clock", "controller")
	defer func() {
		c.events.Finish()
		c.events = nil
	}()

	next := time.Now()
	for {
		start := time.Now()
		frameDelayMetric.Observe(float64(start.Sub(next).Nanoseconds()))
		if err := c.Tick(start); err != nil {
			c.events.Errorf("tick: %v", err)
			return fmt.Errorf("tick: %w", err)
		}

		next = next.Add(interval)
		if now := time.Now(); now.After(next) {
			skipped := now.Sub(next)/interval + 1
			missedFramesCounter.Add(float64(skipped))
			next = next.Add(skipped * interval)
		}

		select {
		case <-time.After(time.Until(next)):
		case <-ctx.Done():
			return fmt.Errorf("waiting for next frame: %w", ctx.Err())
		}
	}
}
