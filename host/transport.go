package host

import (
	"sync"

	"go-stepseq/sequencer"
)

// PulsesPerQuarter is the MIDI clock rate; six pulses make one 16th step.
const PulsesPerQuarter = 24

// PulseSource delivers at most one pulse value per frame.
type PulseSource interface {
	// NextPulse returns the pulse for this frame: 0 when none arrived,
	// sequencer.ClockReset to stage a reset, otherwise the running count.
	NextPulse() uint32
}

// Transport is an internal pulse generator for previewing without an
// external clock. Safe for concurrent use.
type Transport struct {
	mu        sync.Mutex
	frameRate int
	tempo     int
	acc       int // pulse phase, one pulse per 60*frameRate units
	count     uint32
	running   bool
	reset     bool
}

// NewTransport creates a stopped transport
func NewTransport(frameRate, tempo int) *Transport {
	return &Transport{frameRate: max(1, frameRate), tempo: tempo}
}

// Start rewinds and starts. The first frame after Start stages a reset so the
// following pulse plays step 0.
func (t *Transport) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.start()
}

func (t *Transport) start() {
	t.running = true
	t.reset = true
	t.count = 0
	t.acc = t.threshold() // first pulse right after the reset
}

// Stop halts pulses, position is kept
func (t *Transport) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
}

// Toggle starts a stopped transport and stops a running one
func (t *Transport) Toggle() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		t.running = false
		return false
	}
	t.start()
	return true
}

// Running reports whether pulses are being generated
func (t *Transport) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// SetTempo changes the tempo in BPM
func (t *Transport) SetTempo(bpm int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tempo = max(1, bpm)
}

// Tempo returns the tempo in BPM
func (t *Transport) Tempo() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tempo
}

func (t *Transport) threshold() int {
	return 60 * t.frameRate
}

// NextPulse advances one frame
func (t *Transport) NextPulse() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return 0
	}
	if t.reset {
		t.reset = false
		return sequencer.ClockReset
	}

	t.acc += t.tempo * PulsesPerQuarter
	if t.acc < t.threshold() {
		return 0
	}
	// one pulse per frame at most, a backlog is dropped
	t.acc = min(t.acc-t.threshold(), t.threshold()-1)

	t.count++
	if t.count == sequencer.ClockReset || t.count == 0 {
		t.count = 1
	}
	return t.count
}
