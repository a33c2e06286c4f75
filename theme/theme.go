package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"go-stepseq/sequencer"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

// Symbols used by the step grid
type Symbols struct {
	Rest     rune // · rest
	Note     rune // ● note
	Slide    rune // ⌒ slide into the next step
	Accent   rune // ▲ accented
	Hit      rune // ■ trigger hit
	Playhead rune // ▶ current step
	Beyond   rune // - past the pattern length
}

func New(palette *Palette) *Theme {
	if palette == nil {
		palette = Plasma()
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Rest:     '·',
			Note:     '●',
			Slide:    '⌒',
			Accent:   '▲',
			Hit:      '■',
			Playhead: '▶',
			Beyond:   '-',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG     = 0.0
	RoleMuted  = 0.25
	RoleFG     = 0.5
	RoleAccent = 0.6
	RoleCursor = 0.75
	RoleActive = 1.0
)

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	c := t.Palette.Lookup(norm)
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}

// Styles

func (t *Theme) Title() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Color(RoleActive))
}

func (t *Theme) Muted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Color(RoleMuted))
}

func (t *Theme) Text() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Color(RoleFG))
}

func (t *Theme) Cursor() lipgloss.Style {
	return lipgloss.NewStyle().Reverse(true).Foreground(t.Color(RoleCursor))
}

func (t *Theme) Playhead() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Color(RoleActive))
}

func (t *Theme) Accent() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Color(RoleAccent))
}

// StepGlyph picks the grid symbol for a raw step byte
func (t *Theme) StepGlyph(engine string, b byte) rune {
	if engine == sequencer.EngineTrig {
		if b != 0 {
			return t.Symbols.Hit
		}
		return t.Symbols.Rest
	}
	switch {
	case b&sequencer.Slide != 0:
		return t.Symbols.Slide
	case b&sequencer.Accent != 0:
		return t.Symbols.Accent
	case b != 0:
		return t.Symbols.Note
	}
	return t.Symbols.Rest
}
