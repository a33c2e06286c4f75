package sequencer

// MaxSteps is the fixed pattern capacity.
const MaxSteps = 16

// Pattern is an array-backed step store with a separate active length.
// Bytes past the active length are kept when the length shrinks.
type Pattern struct {
	steps  [MaxSteps]byte
	length int
}

// NewPattern creates a pattern holding the given bytes, with length set to
// len(steps) (clamped).
func NewPattern(steps ...byte) Pattern {
	var p Pattern
	copy(p.steps[:], steps)
	p.SetLength(len(steps))
	return p
}

// Step returns the raw byte at i. i must be in [0, MaxSteps).
func (p *Pattern) Step(i int) byte {
	return p.steps[i]
}

// SetByte stores a raw step byte at i
func (p *Pattern) SetByte(i int, b byte) {
	p.steps[i] = b
}

// SetStep encodes a melodic step at i
func (p *Pattern) SetStep(i int, note uint8, slide, accent bool) {
	p.steps[i] = Encode(note, slide, accent)
}

// Length returns the number of steps played
func (p *Pattern) Length() int {
	return p.length
}

// SetLength changes the played prefix, clamped to [1, MaxSteps].
// Step bytes are never erased or moved.
func (p *Pattern) SetLength(n int) {
	p.length = clampLength(n)
}

// Bytes returns a copy of the active prefix, exactly Length() bytes.
func (p *Pattern) Bytes() []byte {
	out := make([]byte, p.length)
	copy(out, p.steps[:p.length])
	return out
}

// Restore copies up to Length() bytes from b into the active prefix.
// Short or long input is not reported; the persistence layer owns sizing.
func (p *Pattern) Restore(b []byte) {
	copy(p.steps[:p.length], b)
}

// Wrap maps any integer step index onto [0, Length()).
func (p *Pattern) Wrap(i int) int {
	i %= p.length
	if i < 0 {
		i += p.length
	}
	return i
}

func clampLength(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxSteps {
		return MaxSteps
	}
	return n
}
