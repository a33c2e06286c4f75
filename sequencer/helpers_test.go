package sequencer

import "testing"

func assert[T comparable](t *testing.T, got, want T) {
	t.Helper()

	if got != want {
		t.Fatalf("assertion failed: got = %v want %v", got, want)
	}
}

// pulseRig feeds an engine with a steady pulse stream, one pulse every
// framesPerPulse frames, starting with pulse 1 at t = 0.
type pulseRig struct {
	eng            Engine
	framesPerPulse uint32
	t              uint32
	out            OutputFrame
}

func newRig(eng Engine, framesPerPulse uint32) *pulseRig {
	return &pulseRig{eng: eng, framesPerPulse: framesPerPulse}
}

// frame processes one frame and returns its pulse value and outputs
func (r *pulseRig) frame() (clock uint32, values []int32) {
	if r.t%r.framesPerPulse == 0 {
		clock = r.t/r.framesPerPulse + 1
	}
	r.out.Reset()
	r.eng.Process(ControlFrame{Clock: clock, T: r.t}, &r.out)
	r.t++
	return clock, r.out.Values()
}

func (r *pulseRig) framesPerStep() uint32 {
	return r.framesPerPulse * PulsesPerStep
}
