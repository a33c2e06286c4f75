package sequencer

import "math"

// GateFullScale is the gate and accent level of the acid variant.
const GateFullScale int16 = math.MaxInt16

// TriggerLevel is the trigger output level, 5 V in pitch units.
const TriggerLevel int32 = 5 * PitchPerOctave

// TriggerWindow is the fixed trigger pulse length in frames.
const TriggerWindow uint32 = 2

// AcidGate derives gate and accent for the current step. A slid step holds
// its gate past the window so the glide has no gap.
func AcidGate(s Step, open bool) (gate, accent int16) {
	if (s.Active && open) || s.Slide {
		gate = GateFullScale
	}
	if gate != 0 && s.Accent {
		accent = GateFullScale
	}
	return gate, accent
}

// TrigGate derives the trigger output. The window is only opened on a hit,
// so the step itself is not consulted again.
func TrigGate(open bool) int32 {
	if open {
		return TriggerLevel
	}
	return 0
}
