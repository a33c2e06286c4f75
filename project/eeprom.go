package project

import (
	"os"
	"path/filepath"

	"go-stepseq/sequencer"
)

// EEPROM is a raw step image on disk, the way the module stores its
// pattern: exactly the active prefix, no length and no header. Reading it
// back only gives the same pattern if the engine length matches.
type EEPROM struct {
	Path string
}

// Write stores the engine's active prefix
func (r EEPROM) Write(e sequencer.Engine) error {
	if err := os.MkdirAll(filepath.Dir(r.Path), 0755); err != nil {
		return err
	}
	return os.WriteFile(r.Path, e.Save(), 0644)
}

// Read loads the image into the engine's active prefix. A missing file
// leaves the engine untouched.
func (r EEPROM) Read(e sequencer.Engine) error {
	data, err := os.ReadFile(r.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	e.Restore(data)
	return nil
}
