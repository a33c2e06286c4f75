package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-stepseq/config"
	"go-stepseq/debug"
	"go-stepseq/host"
	"go-stepseq/midi"
	"go-stepseq/project"
	"go-stepseq/sequencer"
	"go-stepseq/theme"
	"go-stepseq/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Debug {
		if err := debug.Enable(debug.DefaultPath()); err != nil {
			return err
		}
		defer debug.Disable()
	}

	e, err := sequencer.New(cfg.Engine)
	if err != nil {
		return err
	}

	// Newest save of the configured project, else its EEPROM image
	root, err := project.DefaultRoot()
	if err != nil {
		return err
	}
	if from, err := project.Restore(root, cfg.Project, e); err != nil {
		debug.Log(debug.Store, "restore %s: %v", cfg.Project, err)
	} else if from != "" {
		debug.Log(debug.Store, "restored %s", from)
	}
	eeprom := project.EEPROM{Path: project.EEPROMPath(root, cfg.Project)}

	// Pulses come from the internal transport or a MIDI clock input
	var (
		pulses    host.PulseSource
		transport *host.Transport
	)
	switch cfg.Clock {
	case config.ClockMIDI:
		follower := midi.NewClockFollower()
		stop, err := midi.ListenClock(cfg.MIDI.ClockInPort, follower)
		if err != nil {
			return err
		}
		defer stop()
		pulses = follower
	default:
		transport = host.NewTransport(cfg.FrameRate, cfg.Tempo)
		pulses = transport
	}

	manager := host.NewManager(e, pulses, cfg.FrameRate)

	var monitor *midi.Monitor
	if cfg.MIDI.MonitorOutPort != "" {
		send, err := midi.OpenOut(cfg.MIDI.MonitorOutPort)
		if err != nil {
			return err
		}
		monitor = midi.NewMonitor(send, cfg.MIDI.MonitorChannel, e.Outputs())
		manager.AddSink(monitor)
	}

	stopLoop := manager.Start(context.Background())

	save := func() (string, error) {
		var state project.State
		err := manager.Do(func(e sequencer.Engine) error {
			state = project.Capture(e)
			return eeprom.Write(e)
		})
		if err != nil {
			return "", err
		}
		return project.Save(root, cfg.Project, "", state, time.Now())
	}

	m := tui.NewModel(manager, transport, theme.New(loadPalette()), save)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()

	// no frame may reach the monitor after its last note off
	stopLoop()
	if monitor != nil {
		monitor.Silence()
	}
	return err
}

// loadPalette reads palette.gpl from the config dir, falling back to the
// built-in palette.
func loadPalette() *theme.Palette {
	dir, err := config.Dir()
	if err != nil {
		return nil
	}
	palette, err := theme.LoadGPL(filepath.Join(dir, "palette.gpl"))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			debug.Log(debug.Store, "palette: %v", err)
		}
		return nil
	}
	return palette
}
