package host

import (
	"context"
	"sync"
	"time"

	"go-stepseq/debug"
	"go-stepseq/sequencer"
)

// Sink receives every processed frame, e.g. the MIDI monitor.
type Sink interface {
	Frame(t uint32, values []int32)
}

// Snapshot is a copy of the engine state for rendering
type Snapshot struct {
	Engine   string
	T        uint32
	Position int
	Started  bool
	Length   int
	Steps    [sequencer.MaxSteps]byte
	Cursor   sequencer.EditCursor
	Seed     uint32
	Outputs  []int32
}

// Manager drives one engine frame by frame. It owns the only lock around the
// engine, so edits from the UI never overlap Process.
type Manager struct {
	mu        sync.Mutex
	engine    sequencer.Engine
	pulses    PulseSource
	sinks     []Sink
	frameRate int

	t    uint32
	out  sequencer.OutputFrame
	last []int32

	// Notify the TUI of step changes and edits
	UpdateChan chan struct{}
}

// NewManager creates a manager for e fed by pulses
func NewManager(e sequencer.Engine, pulses PulseSource, frameRate int) *Manager {
	return &Manager{
		engine:     e,
		pulses:     pulses,
		frameRate:  max(1, frameRate),
		last:       make([]int32, e.Outputs()),
		UpdateChan: make(chan struct{}, 1),
	}
}

// AddSink registers an output consumer. Call before Run.
func (m *Manager) AddSink(s Sink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sinks = append(m.sinks, s)
}

// Step processes n frames synchronously
func (m *Manager) Step(n int) {
	for i := 0; i < n; i++ {
		m.frame()
	}
}

func (m *Manager) frame() {
	m.mu.Lock()
	defer m.mu.Unlock()

	clock := m.pulses.NextPulse()
	m.out.Reset()
	m.engine.Process(sequencer.ControlFrame{Clock: clock, T: m.t}, &m.out)
	copy(m.last, m.out.Values())

	for _, s := range m.sinks {
		s.Frame(m.t, m.out.Values())
	}

	if sequencer.IsBoundary(clock) {
		if clock == sequencer.ClockReset {
			debug.Log(debug.Clock, "reset staged at t=%d", m.t)
		} else {
			debug.LogEvery(16, debug.Clock, "boundary pulse=%d pos=%d", clock, m.engine.Position())
		}
		m.notify()
	}
	m.t++
}

// Run processes frames in real time until ctx is done
func (m *Manager) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(m.frameRate))
	defer ticker.Stop()

	debug.Log(debug.Transport, "frame loop started at %d Hz", m.frameRate)
	for {
		select {
		case <-ctx.Done():
			debug.Log(debug.Transport, "frame loop stopped at t=%d", m.T())
			return ctx.Err()
		case <-ticker.C:
			m.frame()
		}
	}
}

// Start runs the frame loop in a goroutine. The returned stop function
// cancels it and waits for the last frame to finish, so sinks can be shut
// down safely afterwards.
func (m *Manager) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}

// notify wakes the TUI without blocking the frame loop
func (m *Manager) notify() {
	select {
	case m.UpdateChan <- struct{}{}:
	default:
	}
}

// T returns the number of frames processed
func (m *Manager) T() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.t
}

// Edit runs an edit operation on the engine between frames
func (m *Manager) Edit(fn func(e sequencer.Engine) sequencer.EditCursor) sequencer.EditCursor {
	m.mu.Lock()
	c := fn(m.engine)
	m.mu.Unlock()

	debug.Log(debug.Edit, "cursor pos=%d pitch=%d state=%s", c.Pos, c.Pitch, c.State)
	m.notify()
	return c
}

// Do runs fn with exclusive access to the engine, for persistence and other
// non-edit work.
func (m *Manager) Do(fn func(e sequencer.Engine) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.engine)
}

// Snapshot copies the current engine state
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.engine
	p := e.Pattern()
	s := Snapshot{
		Engine:   e.Name(),
		T:        m.t,
		Position: e.Position(),
		Started:  e.Started(),
		Length:   p.Length(),
		Cursor:   e.Cursor(),
		Seed:     e.Seed(),
		Outputs:  append([]int32(nil), m.last...),
	}
	for i := range s.Steps {
		s.Steps[i] = p.Step(i)
	}
	return s
}
