package sequencer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRandomizeDeterministic(t *testing.T) {
	for seed := uint32(0); seed < 64; seed++ {
		for length := 1; length <= MaxSteps; length++ {
			a := Randomize(seed, length)
			b := Randomize(seed, length)
			if diff := cmp.Diff(a.Bytes(), b.Bytes()); diff != "" {
				t.Fatalf("seed %d length %d differs (-first +second):\n%s", seed, length, diff)
			}
		}
	}
}

func TestRandomizeLength(t *testing.T) {
	p := Randomize(7, 5)
	assert(t, p.Length(), 5)
	for i := 5; i < MaxSteps; i++ {
		assert(t, p.Step(i), byte(0))
	}

	short := Randomize(7, 0)
	assert(t, short.Length(), 1)
	long := Randomize(7, 99)
	assert(t, long.Length(), MaxSteps)
}

func TestRandomizeSeeds(t *testing.T) {
	a := Randomize(1, MaxSteps)
	b := Randomize(2, MaxSteps)
	if cmp.Equal(a.Bytes(), b.Bytes()) {
		t.Fatal("different seeds gave the same pattern")
	}
}

// replays the draw order by hand
func TestRandomizeLastWriteWins(t *testing.T) {
	const seed, length = 42, 12
	r := NewRandomizer(seed)
	var want [length]byte
	for i := 0; i < length; i++ {
		v := byte(r.Next() % 256)
		n := 1 + int(r.Next()%length)
		for j := i; j < length; j += n {
			want[j] = v
		}
	}

	got := Randomize(seed, length)
	if diff := cmp.Diff(want[:], got.Bytes()); diff != "" {
		t.Fatalf("pattern mismatch (-want +got):\n%s", diff)
	}
}
