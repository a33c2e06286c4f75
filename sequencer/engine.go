package sequencer

import (
	"fmt"
	"sort"
)

// Engine names, as shown on the module and stored in saves
const (
	EngineAcid = "ACIDSequencer"
	EngineTrig = "TrigSequencer"
)

// Engine is a sequencer voice driven once per frame by the host.
//
// Process and the edit methods are not safe for concurrent use; the host
// serializes them.
type Engine interface {
	Name() string
	Outputs() int // values pushed per frame
	Process(f ControlFrame, out *OutputFrame)

	// Pattern state
	Pattern() *Pattern
	Position() int
	Started() bool
	Seed() uint32

	// Edit surface, each returns the refreshed cursor
	Cursor() EditCursor
	SelectStep(pos int) EditCursor
	SetPitch(pitch int) EditCursor
	SetNoteState(s NoteState) EditCursor
	SetLength(n int) EditCursor
	SetSeed(seed uint32) EditCursor
	LoadSeed(seed uint32)

	// Persistence of the active prefix
	Save() []byte
	Restore(b []byte) EditCursor
}

var registry = map[string]func() Engine{}

// Register makes an engine constructor available to New
func Register(name string, fn func() Engine) {
	registry[name] = fn
}

func init() {
	Register(EngineAcid, func() Engine { return NewAcidEngine() })
	Register(EngineTrig, func() Engine { return NewTrigEngine() })
}

// New creates a registered engine by name
func New(name string) (Engine, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown engine %q", name)
	}
	return fn(), nil
}

// Names returns the registered engine names, sorted
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// base holds the state both variants share. src decodes pattern for the
// variant; the clock and the gate path only see decoded steps.
type base struct {
	pattern Pattern
	src     StepSource
	clock   *Clock
	cursor  EditCursor
	seed    uint32
}

func (b *base) Pattern() *Pattern  { return &b.pattern }
func (b *base) Position() int      { return b.clock.Position() }
func (b *base) Started() bool      { return b.clock.Started() }
func (b *base) Seed() uint32       { return b.seed }
func (b *base) Cursor() EditCursor { return b.cursor }
func (b *base) Save() []byte       { return b.pattern.Bytes() }

// LoadSeed records seed as the last randomization without touching the
// pattern, for restoring saves.
func (b *base) LoadSeed(seed uint32) { b.seed = seed }

// current decodes the step under the playhead
func (b *base) current() Step {
	return b.src.Decode(b.clock.Position())
}

// previous decodes the step before the playhead
func (b *base) previous() Step {
	return b.src.Decode(b.clock.Previous(b.src.Length()))
}

func (b *base) selected() byte {
	return b.pattern.Step(b.cursor.Pos)
}

// wrapCursor keeps the cursor inside the active prefix
func (b *base) wrapCursor(pos int) {
	b.cursor.Pos = b.pattern.Wrap(pos)
}

// randomize replaces the active prefix; steps past it are kept
func (b *base) randomize(seed uint32) {
	b.seed = seed
	r := Randomize(seed, b.pattern.Length())
	b.pattern.Restore(r.Bytes())
}
