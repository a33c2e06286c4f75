package render

import (
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"go-stepseq/host"
	"go-stepseq/sequencer"
)

const (
	bitDepth  = 16
	pcmFormat = 1
	chunk     = 4096 // sample frames per encoder write
)

// PitchRange is the pitch that maps to full scale on channel 0: five octaves
// (5 V) either side of C4.
const PitchRange = 5 * sequencer.PitchPerOctave

// Options controls an offline render
type Options struct {
	Frames     int // engine frames to run
	Hold       int // audio samples per engine frame
	SampleRate int
}

// Writer is a host.Sink that encodes every frame into a WAV stream, one
// channel per engine output. Channel 0 (pitch or trigger) is scaled by
// PitchRange, gate and accent are already 16-bit.
type Writer struct {
	enc      *wav.Encoder
	buf      *audio.IntBuffer
	channels int
	hold     int
	err      error
}

// NewWriter creates a WAV writer for an engine with the given outputs
func NewWriter(w io.WriteSeeker, channels, hold, sampleRate int) *Writer {
	return &Writer{
		enc: wav.NewEncoder(w, sampleRate, bitDepth, channels, pcmFormat),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
			Data:           make([]int, 0, chunk*channels),
		},
		channels: channels,
		hold:     max(1, hold),
	}
}

// Frame implements host.Sink
func (w *Writer) Frame(t uint32, values []int32) {
	if w.err != nil {
		return
	}
	for h := 0; h < w.hold; h++ {
		for ch := 0; ch < w.channels; ch++ {
			var v int32
			if ch < len(values) {
				v = values[ch]
			}
			w.buf.Data = append(w.buf.Data, Sample(ch, v))
		}
		if len(w.buf.Data) >= chunk*w.channels {
			w.flush()
		}
	}
}

func (w *Writer) flush() {
	if w.err != nil || len(w.buf.Data) == 0 {
		return
	}
	w.err = w.enc.Write(w.buf)
	w.buf.Data = w.buf.Data[:0]
}

// Close flushes pending samples and finishes the WAV header
func (w *Writer) Close() error {
	w.flush()
	if err := w.enc.Close(); err != nil && w.err == nil {
		w.err = err
	}
	return w.err
}

// Sample converts one output value to a 16-bit sample
func Sample(ch int, v int32) int {
	if ch == 0 {
		v = int32(int64(v) * math.MaxInt16 / int64(PitchRange))
	}
	return int(max(math.MinInt16, min(math.MaxInt16, v)))
}

// WAV runs e for opt.Frames frames from src and writes the output to w.
func WAV(w io.WriteSeeker, e sequencer.Engine, src host.PulseSource, opt Options) error {
	out := NewWriter(w, e.Outputs(), opt.Hold, opt.SampleRate)
	m := host.NewManager(e, src, max(1, opt.SampleRate/max(1, opt.Hold)))
	m.AddSink(out)
	m.Step(opt.Frames)
	return out.Close()
}
