package sequencer

// NoteState is the per-step edit choice
type NoteState int

const (
	StateRest NoteState = iota
	StateNote
	StateNoteSlide
	StateNoteAccent
	StateNoteSlideAccent
)

var noteStateNames = []string{"Rest", "Note", "Note+S", "Note+A", "Note+S+A"}

func (s NoteState) String() string {
	if s < 0 || int(s) >= len(noteStateNames) {
		return "?"
	}
	return noteStateNames[s]
}

// DefaultNote is the edit pitch shown for C4 (MIDI middle C).
const DefaultNote = 60

// EditCursor is the transient UI selection. It mirrors the selected step and
// is rebuilt whenever the selection or the pattern changes.
type EditCursor struct {
	Pos   int
	Pitch int       // MIDI-style note number (acid only)
	State NoteState // StateRest or StateNote for the trigger variant
}

// acidState derives the edit mirror of a melodic step byte
func acidState(b byte) NoteState {
	switch {
	case b&(Slide|Accent) == Slide|Accent:
		return StateNoteSlideAccent
	case b&Slide != 0:
		return StateNoteSlide
	case b&Accent != 0:
		return StateNoteAccent
	case b&NoteMask != 0:
		return StateNote
	}
	return StateRest
}

// pitchToNote maps an edit pitch onto a playable note index (never a rest).
func pitchToNote(pitch int) uint8 {
	n := int(C4) + pitch - DefaultNote
	if n < 1 {
		n = 1
	}
	if n > int(NoteMask) {
		n = int(NoteMask)
	}
	return uint8(n)
}

func noteToPitch(note uint8) int {
	return DefaultNote + int(note&NoteMask) - int(C4)
}
