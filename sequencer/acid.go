package sequencer

// acidDemo is the pattern a fresh acid engine starts with
var acidDemo = []byte{
	0x21, 0x34, 0x25 | Slide, 0x3B,
	0x2D | Slide | Accent, 0x2A, 0x1D | Slide | Accent, 0x2B,
	0x39 | Slide, 0x20, C4 | Slide, 0x31 | Slide | Accent,
	0x28, 0x25 | Slide, 0x1C | Slide, 0x26 | Slide,
}

// AcidEngine is the melodic variant: pitch, gate and accent with slides.
type AcidEngine struct {
	base
	ramp Ramp
}

// NewAcidEngine creates an acid engine with the demo pattern loaded
func NewAcidEngine() *AcidEngine {
	e := &AcidEngine{
		base: base{
			pattern: NewPattern(acidDemo...),
			clock:   NewClock(),
			cursor:  EditCursor{Pitch: DefaultNote},
		},
		ramp: NewRamp(),
	}
	e.src = AcidPattern{&e.pattern}
	e.refresh()
	return e
}

func (e *AcidEngine) Name() string { return EngineAcid }
func (e *AcidEngine) Outputs() int { return 3 }

// Ramp exposes the slide state
func (e *AcidEngine) Ramp() Ramp {
	return e.ramp
}

// Process runs one frame and pushes pitch, gate and accent.
func (e *AcidEngine) Process(f ControlFrame, out *OutputFrame) {
	if b, ok := e.clock.Tick(f.Clock, f.T, e.pattern.Length()); ok {
		// the slide flag lives on the step we are leaving
		if e.previous().Slide {
			e.ramp.Arm(b.Window)
		} else {
			e.ramp.Disarm()
		}
	}

	cur := e.current()
	if !e.clock.Started() {
		out.Push(f.CV + NotePitch(cur.Note))
		out.PushGate(0)
		out.PushGate(0)
		return
	}

	prev := e.previous()
	cv := f.CV + e.ramp.Next(NotePitch(prev.Note), NotePitch(cur.Note))
	gate, accent := AcidGate(cur, e.clock.Open(f.T))

	out.Push(cv)
	out.PushGate(gate)
	out.PushGate(accent)
}

// refresh rebuilds the cursor mirrors from the selected step. A rest keeps
// the last edit pitch so turning it into a note reuses that pitch.
func (e *AcidEngine) refresh() EditCursor {
	e.wrapCursor(e.cursor.Pos)
	b := e.selected()
	if b&NoteMask != 0 {
		e.cursor.Pitch = noteToPitch(b)
	}
	e.cursor.State = acidState(b)
	return e.cursor
}

// SelectStep moves the cursor, wrapping to the pattern length
func (e *AcidEngine) SelectStep(pos int) EditCursor {
	e.cursor.Pos = pos
	return e.refresh()
}

// SetPitch changes the note of the selected step and keeps its flags
func (e *AcidEngine) SetPitch(pitch int) EditCursor {
	b := e.selected()&(Slide|Accent) | pitchToNote(pitch)
	e.pattern.SetByte(e.cursor.Pos, b)
	return e.refresh()
}

// SetNoteState rewrites the selected step from the edit pitch and state
func (e *AcidEngine) SetNoteState(s NoteState) EditCursor {
	note := pitchToNote(e.cursor.Pitch)
	switch {
	case s <= StateRest:
		e.pattern.SetByte(e.cursor.Pos, Rest)
	case s == StateNote:
		e.pattern.SetStep(e.cursor.Pos, note, false, false)
	case s == StateNoteSlide:
		e.pattern.SetStep(e.cursor.Pos, note, true, false)
	case s == StateNoteAccent:
		e.pattern.SetStep(e.cursor.Pos, note, false, true)
	default:
		e.pattern.SetStep(e.cursor.Pos, note, true, true)
	}
	return e.refresh()
}

// SetLength changes the played length and rewraps the cursor
func (e *AcidEngine) SetLength(n int) EditCursor {
	e.pattern.SetLength(n)
	return e.refresh()
}

// SetSeed regenerates the active prefix from seed
func (e *AcidEngine) SetSeed(seed uint32) EditCursor {
	e.randomize(seed)
	return e.refresh()
}

// Restore loads the active prefix from raw bytes
func (e *AcidEngine) Restore(b []byte) EditCursor {
	e.pattern.Restore(b)
	return e.refresh()
}
