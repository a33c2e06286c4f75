package sequencer

var trigDemo = []byte{1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0}

// TrigEngine is the trigger variant: a short fixed pulse on every hit.
type TrigEngine struct {
	base
}

// NewTrigEngine creates a trigger engine with four on the floor
func NewTrigEngine() *TrigEngine {
	e := &TrigEngine{
		base: base{
			pattern: NewPattern(trigDemo...),
			clock:   NewFixedClock(TriggerWindow),
		},
	}
	e.src = TrigPattern{&e.pattern}
	e.refresh()
	return e
}

func (e *TrigEngine) Name() string { return EngineTrig }
func (e *TrigEngine) Outputs() int { return 1 }

// Process runs one frame and pushes the trigger level
func (e *TrigEngine) Process(f ControlFrame, out *OutputFrame) {
	if _, ok := e.clock.Tick(f.Clock, f.T, e.pattern.Length()); ok && !e.current().Active {
		// the window only opens on a hit; later edits don't reopen it
		e.clock.Close()
	}

	if !e.clock.Started() {
		out.Push(0)
		return
	}
	out.Push(TrigGate(e.clock.Open(f.T)))
}

func (e *TrigEngine) refresh() EditCursor {
	e.wrapCursor(e.cursor.Pos)
	e.cursor.State = StateRest
	if e.selected() != 0 {
		e.cursor.State = StateNote
	}
	return e.cursor
}

// SelectStep moves the cursor, wrapping to the pattern length
func (e *TrigEngine) SelectStep(pos int) EditCursor {
	e.cursor.Pos = pos
	return e.refresh()
}

// SetPitch does nothing, trigger steps have no pitch
func (e *TrigEngine) SetPitch(int) EditCursor {
	return e.cursor
}

// SetNoteState sets the selected step to a hit or a rest. Any state other
// than StateRest is a hit.
func (e *TrigEngine) SetNoteState(s NoteState) EditCursor {
	b := Hit
	if s <= StateRest {
		b = Rest
	}
	e.pattern.SetByte(e.cursor.Pos, b)
	return e.refresh()
}

// SetLength changes the played length and rewraps the cursor
func (e *TrigEngine) SetLength(n int) EditCursor {
	e.pattern.SetLength(n)
	return e.refresh()
}

// SetSeed regenerates the active prefix from seed
func (e *TrigEngine) SetSeed(seed uint32) EditCursor {
	e.randomize(seed)
	return e.refresh()
}

// Restore loads the active prefix from raw bytes
func (e *TrigEngine) Restore(b []byte) EditCursor {
	e.pattern.Restore(b)
	return e.refresh()
}
