package sequencer

// ClockReset is the pulse value a host delivers to stage a transport reset.
// It is the largest uint32 that still lands on a step boundary (mod 6 == 1).
const ClockReset uint32 = 0xFFFFFFFD

// PulsesPerStep is the number of incoming clock pulses per sequencer step.
const PulsesPerStep = 6

// ControlFrame is the host input for one invocation of Process.
type ControlFrame struct {
	Clock   uint32 // pulse count delivered on this frame, 0 if none, or ClockReset
	T       uint32 // absolute frame counter
	CV      int32  // external v/oct input, added to the pitch output
	Trigger bool
	Accent  bool
}

const maxOutputs = 4

// OutputFrame collects the values an engine emits for one frame, in order.
// Values are stored widened to int32: pitch and trigger levels are pushed
// with Push, 16-bit gate and accent levels with PushGate, and a consumer
// may narrow those back to int16 without loss.
type OutputFrame struct {
	values [maxOutputs]int32
	n      int
}

// Reset empties the frame for reuse
func (o *OutputFrame) Reset() {
	o.n = 0
}

// Push appends a value
func (o *OutputFrame) Push(v int32) {
	if o.n < maxOutputs {
		o.values[o.n] = v
		o.n++
	}
}

// PushGate appends a 16-bit gate or accent level
func (o *OutputFrame) PushGate(v int16) {
	o.Push(int32(v))
}

// Values returns the emitted values in order
func (o *OutputFrame) Values() []int32 {
	return o.values[:o.n]
}

// Len returns how many values were emitted
func (o *OutputFrame) Len() int {
	return o.n
}
