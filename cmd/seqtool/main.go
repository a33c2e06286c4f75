package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-stepseq/config"
	"go-stepseq/host"
	"go-stepseq/midi"
	"go-stepseq/project"
	"go-stepseq/render"
	"go-stepseq/sequencer"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "ports":
		err = listPorts()
	case "render":
		err = renderWAV(os.Args[2:])
	case "dump":
		err = dump(os.Args[2:])
	case "random":
		err = random(os.Args[2:])
	default:
		usage()
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Step sequencer tools")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  ports                     - List all MIDI ports")
	fmt.Println("  render <out.wav> [steps]  - Render the current project to a WAV file")
	fmt.Println("  dump [project]            - Print the latest save of a project")
	fmt.Println("  random <seed> [length]    - Print a randomized pattern")
}

func listPorts() error {
	fmt.Println("(waiting up to 3 seconds...)")
	ports, err := midi.ListPorts()
	if err != nil {
		return err
	}
	fmt.Println("=== MIDI Input Ports ===")
	for i, name := range ports.In {
		fmt.Printf("  %d: %s\n", i, name)
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, name := range ports.Out {
		fmt.Printf("  %d: %s\n", i, name)
	}
	return nil
}

// loadEngine builds the configured engine and restores the project into it
func loadEngine(cfg *config.Config, name string) (sequencer.Engine, error) {
	root, err := project.DefaultRoot()
	if err != nil {
		return nil, err
	}
	// a save may be for the other engine
	engine := cfg.Engine
	if state, err := project.LoadLatest(root, name); err == nil && state.Engine != "" {
		engine = state.Engine
	}
	e, err := sequencer.New(engine)
	if err != nil {
		return nil, err
	}
	if _, err := project.Restore(root, name, e); err != nil {
		return nil, err
	}
	return e, nil
}

func renderWAV(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: render <out.wav> [steps]")
	}
	steps := 2 * sequencer.MaxSteps
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return fmt.Errorf("bad step count %q", args[1])
		}
		steps = n
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	e, err := loadEngine(cfg, cfg.Project)
	if err != nil {
		return err
	}

	tr := host.NewTransport(cfg.FrameRate, cfg.Tempo)
	tr.Start()
	// reset frame, then steps worth of pulses
	frames := 2 + steps*sequencer.PulsesPerStep*60*cfg.FrameRate/(cfg.Tempo*host.PulsesPerQuarter)

	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	opt := render.Options{Frames: frames, Hold: cfg.Hold(), SampleRate: cfg.RenderRate}
	if err := render.WAV(f, e, tr, opt); err != nil {
		return err
	}
	fmt.Printf("%s: %d steps of %s, %d frames at %d Hz\n", args[0], steps, e.Name(), frames, cfg.RenderRate)
	return nil
}

func dump(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	name := cfg.Project
	if len(args) > 0 {
		name = args[0]
	}
	e, err := loadEngine(cfg, name)
	if err != nil {
		return err
	}
	fmt.Printf("project %s, %s, seed %d\n", name, e.Name(), e.Seed())
	printPattern(e.Name(), e.Pattern())

	root, err := project.DefaultRoot()
	if err != nil {
		return err
	}
	image, err := os.ReadFile(project.EEPROMPath(root, name))
	if err == nil {
		fmt.Printf("eeprom: % x\n", image)
	}
	return nil
}

func random(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: random <seed> [length]")
	}
	seed, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("bad seed %q", args[0])
	}
	length := sequencer.MaxSteps
	if len(args) > 1 {
		if length, err = strconv.Atoi(args[1]); err != nil {
			return fmt.Errorf("bad length %q", args[1])
		}
	}
	p := sequencer.Randomize(uint32(seed), length)
	printPattern(sequencer.EngineAcid, &p)
	return nil
}

func printPattern(engine string, p *sequencer.Pattern) {
	for i := 0; i < p.Length(); i++ {
		b := p.Step(i)
		if engine == sequencer.EngineTrig {
			hit := "."
			if b != 0 {
				hit = "x"
			}
			fmt.Printf("  %2d  %02x  %s\n", i+1, b, hit)
			continue
		}
		flags := ""
		if b&sequencer.Slide != 0 {
			flags += " slide"
		}
		if b&sequencer.Accent != 0 {
			flags += " accent"
		}
		fmt.Printf("  %2d  %02x  %-3s%s\n", i+1, b, sequencer.NoteName(b), flags)
	}
}
