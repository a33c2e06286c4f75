package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"go-stepseq/host"
	"go-stepseq/sequencer"
	"go-stepseq/theme"
)

const (
	tempoStep       = 5
	refreshInterval = 50 * time.Millisecond // output meter redraw
)

type Model struct {
	Manager   *host.Manager
	Transport *host.Transport // nil when following an external clock
	Theme     *theme.Theme
	Save      func() (string, error)

	status   string
	quitting bool
}

type UpdateMsg struct{}

type tickMsg time.Time

type savedMsg struct {
	path string
	err  error
}

func NewModel(manager *host.Manager, transport *host.Transport, th *theme.Theme, save func() (string, error)) Model {
	return Model{
		Manager:   manager,
		Transport: transport,
		Theme:     th,
		Save:      save,
	}
}

func ListenForUpdates(manager *host.Manager) tea.Cmd {
	return func() tea.Msg {
		<-manager.UpdateChan
		return UpdateMsg{}
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForUpdates(m.Manager),
		tick(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())

	case UpdateMsg:
		return m, ListenForUpdates(m.Manager)

	case tickMsg:
		return m, tick()

	case savedMsg:
		if msg.err != nil {
			m.status = "save failed: " + msg.err.Error()
		} else {
			m.status = "saved " + msg.path
		}
	}
	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	cur := m.Manager.Snapshot().Cursor
	edit := m.Manager.Edit

	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		if m.Transport != nil {
			m.Transport.Stop()
		}
		return m, tea.Quit

	// cursor
	case "left", "h":
		edit(func(e sequencer.Engine) sequencer.EditCursor { return e.SelectStep(cur.Pos - 1) })
	case "right", "l":
		edit(func(e sequencer.Engine) sequencer.EditCursor { return e.SelectStep(cur.Pos + 1) })

	// pitch
	case "up", "k":
		edit(func(e sequencer.Engine) sequencer.EditCursor { return e.SetPitch(cur.Pitch + 1) })
	case "down", "j":
		edit(func(e sequencer.Engine) sequencer.EditCursor { return e.SetPitch(cur.Pitch - 1) })
	case "K", "shift+up":
		edit(func(e sequencer.Engine) sequencer.EditCursor { return e.SetPitch(cur.Pitch + 12) })
	case "J", "shift+down":
		edit(func(e sequencer.Engine) sequencer.EditCursor { return e.SetPitch(cur.Pitch - 12) })

	// note state
	case "n":
		next := nextState(m.Manager.Snapshot().Engine, cur.State)
		edit(func(e sequencer.Engine) sequencer.EditCursor { return e.SetNoteState(next) })
	case "0", "1", "2", "3", "4":
		s := sequencer.NoteState(key[0] - '0')
		edit(func(e sequencer.Engine) sequencer.EditCursor { return e.SetNoteState(s) })

	// length
	case "[":
		edit(func(e sequencer.Engine) sequencer.EditCursor { return e.SetLength(e.Pattern().Length() - 1) })
	case "]":
		edit(func(e sequencer.Engine) sequencer.EditCursor { return e.SetLength(e.Pattern().Length() + 1) })

	// randomize
	case "r":
		edit(func(e sequencer.Engine) sequencer.EditCursor { return e.SetSeed(e.Seed() + 1) })
	case "R":
		edit(func(e sequencer.Engine) sequencer.EditCursor { return e.SetSeed(e.Seed() - 1) })

	// transport
	case " ", "space", "p":
		if m.Transport != nil {
			m.Transport.Toggle()
		}
	case "+", "=":
		if m.Transport != nil {
			m.Transport.SetTempo(m.Transport.Tempo() + tempoStep)
		}
	case "-", "_":
		if m.Transport != nil {
			m.Transport.SetTempo(m.Transport.Tempo() - tempoStep)
		}

	case "s":
		if m.Save != nil {
			save := m.Save
			return m, func() tea.Msg {
				path, err := save()
				return savedMsg{path: path, err: err}
			}
		}
	}
	return m, nil
}

// nextState cycles through the states an engine supports
func nextState(engine string, s sequencer.NoteState) sequencer.NoteState {
	if engine == sequencer.EngineTrig {
		if s == sequencer.StateRest {
			return sequencer.StateNote
		}
		return sequencer.StateRest
	}
	return (s + 1) % (sequencer.StateNoteSlideAccent + 1)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	th := m.Theme
	snap := m.Manager.Snapshot()
	acid := snap.Engine == sequencer.EngineAcid

	var b strings.Builder

	// header
	transport := "ext clock"
	if m.Transport != nil {
		state := "■ stopped"
		if m.Transport.Running() {
			state = "▶ playing"
		}
		transport = fmt.Sprintf("%s  %d BPM", state, m.Transport.Tempo())
	}
	pos := "--"
	if snap.Started {
		pos = fmt.Sprintf("%d", snap.Position+1)
	}
	b.WriteString(th.Title().Render(snap.Engine))
	b.WriteString(th.Text().Render(fmt.Sprintf("  %s  step %s/%d  seed %d", transport, pos, snap.Length, snap.Seed)))
	b.WriteString("\n\n")

	// step grid
	for i := 0; i < sequencer.MaxSteps; i++ {
		glyph := string(th.StepGlyph(snap.Engine, snap.Steps[i]))
		if i >= snap.Length {
			glyph = string(th.Symbols.Beyond)
		}
		cell := " " + glyph + " "
		switch {
		case i == snap.Cursor.Pos:
			cell = th.Cursor().Render(cell)
		case snap.Started && i == snap.Position:
			cell = th.Playhead().Render(" " + string(th.Symbols.Playhead) + " ")
		case i >= snap.Length:
			cell = th.Muted().Render(cell)
		case snap.Steps[i]&sequencer.Accent != 0 && acid:
			cell = th.Accent().Render(cell)
		default:
			cell = th.Text().Render(cell)
		}
		b.WriteString(cell)
	}
	b.WriteString("\n")

	if acid {
		for i := 0; i < sequencer.MaxSteps; i++ {
			name := sequencer.NoteName(snap.Steps[i])
			b.WriteString(th.Muted().Render(fmt.Sprintf("%-3s", name)))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// selection
	sel := snap.Steps[snap.Cursor.Pos]
	if acid {
		b.WriteString(th.Text().Render(fmt.Sprintf("step %d  %s  %s  pitch %d",
			snap.Cursor.Pos+1, sequencer.NoteName(sel), snap.Cursor.State, snap.Cursor.Pitch)))
	} else {
		b.WriteString(th.Text().Render(fmt.Sprintf("step %d  %s", snap.Cursor.Pos+1, snap.Cursor.State)))
	}
	b.WriteString("\n")

	// outputs
	b.WriteString(th.Muted().Render(outputLine(snap)))
	b.WriteString("\n\n")

	help := "←/→ step  [/] length  n state  r/R seed  s save  q quit"
	if acid {
		help = "↑/↓ pitch  K/J octave  " + help
	}
	if m.Transport != nil {
		help += "  space play  +/- tempo"
	}
	b.WriteString(th.Muted().Render(help))

	if m.status != "" {
		b.WriteString("\n" + th.Accent().Render(m.status))
	}
	return b.String()
}

func outputLine(snap host.Snapshot) string {
	on := func(v int32) string {
		if v != 0 {
			return "●"
		}
		return "·"
	}
	out := snap.Outputs
	switch len(out) {
	case 3:
		volts := float64(out[0]) / float64(sequencer.PitchPerOctave)
		return fmt.Sprintf("cv %+.2fV  gate %s  accent %s", volts, on(out[1]), on(out[2]))
	case 1:
		return fmt.Sprintf("trig %s", on(out[0]))
	}
	return ""
}
