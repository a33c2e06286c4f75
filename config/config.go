package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go-stepseq/sequencer"
)

// ClockSource selects where pulses come from
type ClockSource string

const (
	ClockInternal ClockSource = "internal"
	ClockMIDI     ClockSource = "midi"
)

// Limits and defaults
const (
	DefaultFrameRate  = 200 // frames per second, one Process call each
	DefaultTempo      = 120
	DefaultRenderRate = 48000
	MinTempo          = 20
	MaxTempo          = 300
)

// MIDIConfig names the ports used for clock input and note monitoring
type MIDIConfig struct {
	ClockInPort    string `json:"clockInPort,omitempty"`
	MonitorOutPort string `json:"monitorOutPort,omitempty"`
	MonitorChannel uint8  `json:"monitorChannel"` // 0-15
}

// Config is the main configuration structure
type Config struct {
	Engine     string      `json:"engine"`
	FrameRate  int         `json:"frameRate"`
	Tempo      int         `json:"tempo"`
	Clock      ClockSource `json:"clock"`
	MIDI       MIDIConfig  `json:"midi"`
	RenderRate int         `json:"renderRate"`
	Project    string      `json:"project,omitempty"`
	Debug      bool        `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Engine:     sequencer.EngineAcid,
		FrameRate:  DefaultFrameRate,
		Tempo:      DefaultTempo,
		Clock:      ClockInternal,
		RenderRate: DefaultRenderRate,
		Project:    "untitled",
	}
}

// Dir returns the config directory path
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-stepseq"), nil
}

// Path returns the full path to config.json
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a config file. Missing fields keep their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Validate()
	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate clamps values into range and replaces unknown choices with
// defaults.
func (c *Config) Validate() {
	if _, err := sequencer.New(c.Engine); err != nil {
		c.Engine = sequencer.EngineAcid
	}
	if c.FrameRate <= 0 {
		c.FrameRate = DefaultFrameRate
	}
	c.Tempo = max(MinTempo, min(MaxTempo, c.Tempo))
	if c.Clock != ClockMIDI {
		c.Clock = ClockInternal
	}
	if c.MIDI.MonitorChannel > 15 {
		c.MIDI.MonitorChannel = 15
	}
	if c.RenderRate < c.FrameRate {
		c.RenderRate = DefaultRenderRate
	}
}

// Hold returns how many audio samples each frame spans when rendering
func (c *Config) Hold() int {
	return max(1, c.RenderRate/c.FrameRate)
}
