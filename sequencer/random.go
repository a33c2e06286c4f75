package sequencer

import "math/rand/v2"

// second PCG word, fixed so a seed always names the same stream
const randomStream = 0x5EC0_303A

// Randomizer owns a seeded pseudo-random stream
type Randomizer struct {
	rng *rand.Rand
}

// NewRandomizer creates a stream for seed
func NewRandomizer(seed uint32) *Randomizer {
	return &Randomizer{rng: rand.New(rand.NewPCG(uint64(seed), randomStream))}
}

// Next returns the next 32-bit value
func (r *Randomizer) Next() uint32 {
	return r.rng.Uint32()
}

// Randomize builds a pattern of the given length from seed. Each index draws
// a step value and a stride, then repeats the value every stride steps to the
// end of the pattern, so later indices overwrite earlier runs. The result is
// a repeating figure rather than noise. Identical arguments give identical
// patterns.
func Randomize(seed uint32, length int) Pattern {
	length = clampLength(length)
	r := NewRandomizer(seed)

	p := Pattern{length: length}
	span := uint32(NoteMask|Slide|Accent) + 1
	for i := 0; i < length; i++ {
		v := byte(r.Next() % span)
		n := 1 + int(r.Next()%uint32(length))
		for j := i; j < length; j += n {
			p.steps[j] = v
		}
	}
	return p
}
