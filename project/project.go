package project

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go-stepseq/sequencer"
)

const timeLayout = "2006-01-02_15-04-05"

// State is one saved sequencer. Unlike the raw EEPROM image it keeps the
// whole step array and the length, so a reload plays what was saved.
type State struct {
	Engine string `json:"engine"`
	Length int    `json:"length"`
	Seed   uint32 `json:"seed"`
	Steps  string `json:"steps"` // hex, MaxSteps bytes
	Cursor int    `json:"cursor"`
}

// SaveInfo represents a saved file (for listing)
type SaveInfo struct {
	Filename  string
	Name      string // parsed from filename (empty if unnamed)
	Timestamp time.Time
}

// Capture snapshots an engine
func Capture(e sequencer.Engine) State {
	p := e.Pattern()
	steps := make([]byte, sequencer.MaxSteps)
	for i := range steps {
		steps[i] = p.Step(i)
	}
	return State{
		Engine: e.Name(),
		Length: p.Length(),
		Seed:   e.Seed(),
		Steps:  hex.EncodeToString(steps),
		Cursor: e.Cursor().Pos,
	}
}

// Apply loads the state into e. The engine must be of the saved kind.
func (s State) Apply(e sequencer.Engine) error {
	if s.Engine != e.Name() {
		return fmt.Errorf("save is for %s, engine is %s", s.Engine, e.Name())
	}
	steps, err := hex.DecodeString(s.Steps)
	if err != nil {
		return fmt.Errorf("decode steps: %w", err)
	}
	if len(steps) > sequencer.MaxSteps {
		steps = steps[:sequencer.MaxSteps]
	}

	// the seed only names the last randomization, the bytes win
	e.LoadSeed(s.Seed)
	p := e.Pattern()
	for i, b := range steps {
		p.SetByte(i, b)
	}
	e.SetLength(s.Length)
	e.SelectStep(s.Cursor)
	return nil
}

// DefaultRoot returns ~/.config/go-stepseq/projects
func DefaultRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-stepseq", "projects"), nil
}

// List returns all project folder names under root
func List(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	var projects []string
	for _, entry := range entries {
		if entry.IsDir() {
			projects = append(projects, entry.Name())
		}
	}

	sort.Strings(projects)
	return projects, nil
}

// ListSaves returns timestamped saves for a project, newest first
func ListSaves(root, name string) ([]SaveInfo, error) {
	entries, err := os.ReadDir(filepath.Join(root, name))
	if err != nil {
		if os.IsNotExist(err) {
			return []SaveInfo{}, nil
		}
		return nil, err
	}

	var saves []SaveInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, ok := parseSaveName(entry.Name())
		if !ok {
			continue
		}
		saves = append(saves, info)
	}

	sort.Slice(saves, func(i, j int) bool {
		return saves[i].Timestamp.After(saves[j].Timestamp)
	})
	return saves, nil
}

// parseSaveName splits 2024-01-15_14-30-00[_label].json
func parseSaveName(filename string) (SaveInfo, bool) {
	base := strings.TrimSuffix(filename, ".json")
	if len(base) < len(timeLayout) {
		return SaveInfo{}, false
	}

	ts, err := time.Parse(timeLayout, base[:len(timeLayout)])
	if err != nil {
		return SaveInfo{}, false
	}

	label := ""
	if len(base) > len(timeLayout)+1 && base[len(timeLayout)] == '_' {
		label = base[len(timeLayout)+1:]
	}
	return SaveInfo{Filename: filename, Name: label, Timestamp: ts}, true
}

// Save writes state into the project folder with a timestamped name and
// returns the file path.
func Save(root, name, label string, s State, now time.Time) (string, error) {
	if name == "" {
		name = "untitled"
	}

	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	filename := now.Format(timeLayout)
	if label != "" {
		filename += "_" + label
	}
	path := filepath.Join(dir, filename+".json")

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// Load reads a saved state
func Load(path string) (State, error) {
	var s State
	data, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return s, nil
}

// LoadLatest reads the newest save of a project. It returns os.ErrNotExist
// when the project has no saves.
func LoadLatest(root, name string) (State, error) {
	saves, err := ListSaves(root, name)
	if err != nil {
		return State{}, err
	}
	if len(saves) == 0 {
		return State{}, fmt.Errorf("project %q: %w", name, os.ErrNotExist)
	}
	return Load(filepath.Join(root, name, saves[0].Filename))
}

// EEPROMPath is where a project keeps its raw step image
func EEPROMPath(root, name string) string {
	return filepath.Join(root, name, "eeprom.bin")
}

// Restore loads a project into e: the newest save when there is one, else
// the raw EEPROM image. It returns the file that was used, or "" when the
// project has neither and e is left as it was.
func Restore(root, name string, e sequencer.Engine) (string, error) {
	saves, err := ListSaves(root, name)
	if err != nil {
		return "", err
	}
	if len(saves) > 0 {
		path := filepath.Join(root, name, saves[0].Filename)
		s, err := Load(path)
		if err != nil {
			return "", err
		}
		return path, s.Apply(e)
	}

	img := EEPROM{Path: EEPROMPath(root, name)}
	if _, err := os.Stat(img.Path); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return img.Path, img.Read(e)
}
