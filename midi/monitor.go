package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"

	"go-stepseq/debug"
)

// Monitor velocities and the drum note used for triggers
const (
	VelocityNormal uint8 = 100
	VelocityAccent uint8 = 127
	TriggerNote    uint8 = 36
)

// Monitor converts engine output into MIDI notes so a pattern can be
// auditioned on any synth. It implements host.Sink.
type Monitor struct {
	send    func(gomidi.Message) error
	channel uint8
	outputs int

	gated bool
	key   uint8
}

// NewMonitor creates a monitor for an engine with the given output count
// (3 for acid, 1 for trig).
func NewMonitor(send func(gomidi.Message) error, channel uint8, outputs int) *Monitor {
	return &Monitor{send: send, channel: channel & 0x0F, outputs: outputs}
}

// PitchToKey maps the fixed-point pitch output onto a MIDI key, C4 = 60
func PitchToKey(cv int32) uint8 {
	// 128 units per semitone; the arithmetic shift floors negative pitches
	semis := (cv + 64) >> 7
	return uint8(max(0, min(127, 60+int(semis))))
}

// Frame implements host.Sink
func (m *Monitor) Frame(t uint32, values []int32) {
	if len(values) < m.outputs || m.outputs == 0 {
		return
	}

	if m.outputs == 1 {
		m.trigger(values[0] != 0)
		return
	}

	gate := values[1] != 0
	key := PitchToKey(values[0])
	vel := VelocityNormal
	if values[2] != 0 {
		vel = VelocityAccent
	}

	switch {
	case gate && !m.gated:
		m.noteOn(key, vel)
	case gate && key != m.key:
		// legato: new note before releasing the old one
		old := m.key
		m.noteOn(key, vel)
		m.noteOff(old)
	case !gate && m.gated:
		m.noteOff(m.key)
	}
}

func (m *Monitor) trigger(on bool) {
	switch {
	case on && !m.gated:
		m.noteOn(TriggerNote, VelocityNormal)
	case !on && m.gated:
		m.noteOff(TriggerNote)
	}
}

func (m *Monitor) noteOn(key, vel uint8) {
	m.gated = true
	m.key = key
	m.emit(gomidi.NoteOn(m.channel, key, vel))
}

func (m *Monitor) noteOff(key uint8) {
	if key == m.key {
		m.gated = false
	}
	m.emit(gomidi.NoteOff(m.channel, key))
}

func (m *Monitor) emit(msg gomidi.Message) {
	if err := m.send(msg); err != nil {
		debug.LogEvery(32, debug.MIDI, "monitor send: %v", err)
	}
}

// Silence releases a held note, e.g. when the transport stops
func (m *Monitor) Silence() {
	if m.gated {
		m.noteOff(m.key)
	}
}
