package sequencer

// Clock follows the external pulse stream and tracks the step position.
//
// A new clock is unstarted: the first boundary places it by absolute pulse
// count so a sequencer joining mid-stream lands in phase with the others.
type Clock struct {
	position     int
	started      bool
	lastBoundary uint32
	deadline     uint32
	window       uint32 // fixed gate window, 0 = half the step period
}

// Boundary describes a step boundary recognized by Tick.
type Boundary struct {
	Position int
	Window   uint32 // frames until the gate deadline, never 0
	Reset    bool
}

// NewClock creates a clock whose gate window follows the step period.
func NewClock() *Clock {
	return &Clock{}
}

// NewFixedClock creates a clock with a fixed gate window of n frames.
func NewFixedClock(n uint32) *Clock {
	return &Clock{window: n}
}

// IsBoundary reports whether a pulse value starts a new step.
func IsBoundary(clock uint32) bool {
	return clock%PulsesPerStep == 1
}

// Tick consumes one frame. It returns true and the new boundary when the
// frame's pulse value starts a step, and false otherwise.
func (c *Clock) Tick(clock, t uint32, length int) (Boundary, bool) {
	if !IsBoundary(clock) {
		return Boundary{}, false
	}

	b := Boundary{}
	switch {
	case clock == ClockReset:
		// next ordinary boundary advances onto step 0
		c.position = length - 1
		c.started = true
		b.Reset = true
	case !c.started:
		c.position = int((clock / PulsesPerStep) % uint32(length))
		c.started = true
	default:
		c.position = (c.position + 1) % length
	}

	n := 1 + (t-c.lastBoundary)/2
	if c.window != 0 {
		n = c.window
	}
	c.deadline = t + n
	c.lastBoundary = t

	b.Position = c.position
	b.Window = n
	return b, true
}

// Position returns the current step index
func (c *Clock) Position() int {
	return c.position
}

// Started reports whether the clock has seen its first ordinary boundary
func (c *Clock) Started() bool {
	return c.started
}

// Deadline returns the frame time at which the gate window closes
func (c *Clock) Deadline() uint32 {
	return c.deadline
}

// Open reports whether t is inside the current gate window
func (c *Clock) Open(t uint32) bool {
	return t < c.deadline
}

// Close ends the current gate window early
func (c *Clock) Close() {
	c.deadline = c.lastBoundary
}

// Previous returns the step index before the current one, wrapped to length.
func (c *Clock) Previous(length int) int {
	return ((c.position-1)%length + length) % length
}
