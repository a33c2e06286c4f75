package sequencer

import "fmt"

// Step byte layout for the acid variant
const (
	NoteMask uint8 = 0x3F
	Accent   uint8 = 0x40
	Slide    uint8 = 0x80
)

// Rest is the empty step.
const Rest uint8 = 0x00

// C4 is the note index that produces 0 V on the pitch output.
const C4 uint8 = 0x2F

// PitchPerOctave is the fixed-point v/oct scale of the pitch output
// (128 units per semitone).
const PitchPerOctave int32 = 12 << 7

// Hit is what the trigger editor writes for an active step.
const Hit uint8 = 0xFF

// Step is a decoded step byte
type Step struct {
	Note   uint8
	Active bool // eligible to gate
	Slide  bool
	Accent bool
}

// StepSource decodes the steps of a pattern for the shared clock and gate
// logic.
type StepSource interface {
	Length() int
	Decode(i int) Step
}

// Encode packs a melodic step into its byte form.
func Encode(note uint8, slide, accent bool) byte {
	b := note & NoteMask
	if slide {
		b |= Slide
	}
	if accent {
		b |= Accent
	}
	return b
}

// AcidPattern decodes bytes as note/slide/accent steps.
type AcidPattern struct {
	*Pattern
}

// Decode returns the step at i. Any nonzero byte is active, including a
// byte that only carries flags.
func (p AcidPattern) Decode(i int) Step {
	b := p.Step(i)
	return Step{
		Note:   b & NoteMask,
		Active: b != 0,
		Slide:  b&Slide != 0,
		Accent: b&Accent != 0,
	}
}

// TrigPattern decodes bytes as hit/rest.
type TrigPattern struct {
	*Pattern
}

// Decode returns the step at i
func (p TrigPattern) Decode(i int) Step {
	return Step{Active: p.Step(i) != 0}
}

// NotePitch converts a note index to the fixed-point pitch output.
func NotePitch(note uint8) int32 {
	return (int32(note&NoteMask) - int32(C4)) * PitchPerOctave / 12
}

var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName formats a note index for display ("---" for a rest).
func NoteName(note uint8) string {
	note &= NoteMask
	if note == Rest {
		return "---"
	}
	// C4 sits at index 0x2F; the lowest octave starts at C1 = 0x0B
	semis := int(note) - int(C4) + 4*12
	return fmt.Sprintf("%s%d", noteNames[(semis%12+12)%12], floorDiv(semis, 12))
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
