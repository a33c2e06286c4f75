package sequencer

import "math"

// RampFullScale is the phase value of a finished ramp.
const RampFullScale uint32 = math.MaxUint32

// EnvelopeFullScale is the top of the envelope table.
const EnvelopeFullScale = math.MaxUint16

const lutSize = 257

// expoLUT is an exponential rise from 0 to EnvelopeFullScale over the phase
// domain. It is filled once and never written again.
var expoLUT = buildExpoLUT()

func buildExpoLUT() [lutSize]uint16 {
	var lut [lutSize]uint16
	norm := 1 - math.Exp(-4)
	for i := range lut {
		x := float64(i) / float64(lutSize-1)
		v := (1 - math.Exp(-4*x)) / norm
		lut[i] = uint16(math.Round(v * EnvelopeFullScale))
	}
	return lut
}

// interpolate824 reads the table with an 8.24 fixed-point phase: the top
// byte picks the segment, the next 16 bits the position inside it.
func interpolate824(lut *[lutSize]uint16, phase uint32) uint16 {
	i := phase >> 24
	a := int32(lut[i])
	b := int32(lut[i+1])
	frac := int32((phase >> 8) & 0xFFFF)
	return uint16(a + ((b-a)*frac)>>16)
}

// Envelope returns the glide weight for a phase
func Envelope(phase uint32) uint16 {
	return interpolate824(&expoLUT, phase)
}

// Ramp glides the pitch from the previous step into the current one with a
// phase accumulator.
type Ramp struct {
	phase     uint32
	increment uint32
}

// NewRamp returns a finished ramp
func NewRamp() Ramp {
	return Ramp{phase: RampFullScale}
}

// Arm starts a glide that completes within n frames. n must be >= 1.
func (r *Ramp) Arm(n uint32) {
	r.phase = 0
	r.increment = RampFullScale / n
}

// Disarm marks the ramp finished
func (r *Ramp) Disarm() {
	r.phase = RampFullScale
}

// Active reports whether the next call to Next will interpolate
func (r *Ramp) Active() bool {
	return r.phase < RampFullScale-r.increment
}

// Phase returns the accumulator value
func (r *Ramp) Phase() uint32 {
	return r.phase
}

// Increment returns the per-frame phase step
func (r *Ramp) Increment() uint32 {
	return r.increment
}

// Next returns the pitch for this frame and advances the phase while the
// glide is running.
func (r *Ramp) Next(prev, cur int32) int32 {
	if !r.Active() {
		return cur
	}
	e := int32(Envelope(r.phase))
	r.phase += r.increment
	return prev + (cur-prev)*e/EnvelopeFullScale
}
