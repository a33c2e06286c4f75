package midi

import (
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-stepseq/sequencer"
)

// MIDI clock runs at 24 pulses per quarter, which is the sequencer's six
// pulses per 16th step, so clock ticks map one to one onto pulses.

const maxPending = 64

// ClockFollower turns incoming MIDI realtime messages into pulse values.
// Messages arrive on the driver's goroutine; the frame loop drains one pulse
// per frame with NextPulse.
type ClockFollower struct {
	mu      sync.Mutex
	count   uint32
	running bool
	pending []uint32
	dropped int
}

// NewClockFollower creates a follower waiting for Start or Continue
func NewClockFollower() *ClockFollower {
	return &ClockFollower{}
}

// Handle consumes one MIDI message. Non-realtime messages are ignored.
func (c *ClockFollower) Handle(msg gomidi.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case msg.Is(gomidi.StartMsg):
		c.running = true
		c.count = 0
		c.pending = c.pending[:0]
		c.push(sequencer.ClockReset)
	case msg.Is(gomidi.ContinueMsg):
		c.running = true
	case msg.Is(gomidi.StopMsg):
		c.running = false
	case msg.Is(gomidi.TimingClockMsg):
		if !c.running {
			return
		}
		c.count++
		if c.count == sequencer.ClockReset || c.count == 0 {
			c.count = 1
		}
		c.push(c.count)
	}
}

func (c *ClockFollower) push(p uint32) {
	if len(c.pending) >= maxPending {
		c.dropped++
		return
	}
	c.pending = append(c.pending, p)
}

// NextPulse returns the oldest pending pulse, or 0
func (c *ClockFollower) NextPulse() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.pending) == 0 {
		return 0
	}
	p := c.pending[0]
	c.pending = c.pending[1:]
	return p
}

// Running reports whether the external transport is playing
func (c *ClockFollower) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Dropped returns how many pulses overflowed the queue
func (c *ClockFollower) Dropped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}
