package render

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"

	"go-stepseq/host"
	"go-stepseq/sequencer"
)

func TestSample(t *testing.T) {
	tests := []struct {
		ch   int
		v    int32
		want int
	}{
		{0, 0, 0},
		{0, PitchRange, math.MaxInt16},
		{0, -PitchRange, -math.MaxInt16},
		{0, 3 * PitchRange, math.MaxInt16},
		{0, sequencer.TriggerLevel, math.MaxInt16},
		{1, int32(sequencer.GateFullScale), math.MaxInt16},
		{2, 0, 0},
		{1, 1 << 20, math.MaxInt16},
	}
	for _, tt := range tests {
		if got := Sample(tt.ch, tt.v); got != tt.want {
			t.Errorf("Sample(%d, %d) = %d, want %d", tt.ch, tt.v, got, tt.want)
		}
	}
}

func TestWAV(t *testing.T) {
	for _, name := range sequencer.Names() {
		t.Run(name, func(t *testing.T) {
			e, _ := sequencer.New(name)
			tr := host.NewTransport(200, 120)
			tr.Start()

			path := filepath.Join(t.TempDir(), "out.wav")
			f, err := os.Create(path)
			if err != nil {
				t.Fatal(err)
			}
			opt := Options{Frames: 400, Hold: 10, SampleRate: 2000}
			if err := WAV(f, e, tr, opt); err != nil {
				t.Fatal(err)
			}
			f.Close()

			f, err = os.Open(path)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()

			d := wav.NewDecoder(f)
			buf, err := d.FullPCMBuffer()
			if err != nil {
				t.Fatal(err)
			}
			if int(d.NumChans) != e.Outputs() || d.SampleRate != 2000 {
				t.Fatalf("format: %d channels at %d Hz", d.NumChans, d.SampleRate)
			}
			if got, want := len(buf.Data), opt.Frames*opt.Hold*e.Outputs(); got != want {
				t.Fatalf("%d samples, want %d", got, want)
			}

			// both demo patterns open a gate on step 0
			gateCh := 0
			if e.Outputs() > 1 {
				gateCh = 1
			}
			high := false
			for i := gateCh; i < len(buf.Data); i += e.Outputs() {
				if buf.Data[i] == math.MaxInt16 {
					high = true
					break
				}
			}
			if !high {
				t.Fatal("no gate or trigger in the rendered file")
			}
		})
	}
}
