package midi

import (
	"errors"
	"fmt"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-stepseq/debug"
)

// ErrPortNotFound is returned when no port matches the configured name
var ErrPortNotFound = errors.New("midi port not found")

// scanTimeout bounds port enumeration; CoreMIDI can hang
const scanTimeout = 3 * time.Second

// Ports lists input and output port names
type Ports struct {
	In  []string
	Out []string
}

// ListPorts enumerates ports through the registered driver
func ListPorts() (Ports, error) {
	ins, outs, err := scan()
	if err != nil {
		return Ports{}, err
	}
	var p Ports
	for _, in := range ins {
		p.In = append(p.In, in.String())
	}
	for _, out := range outs {
		p.Out = append(p.Out, out.String())
	}
	return p, nil
}

func scan() ([]drivers.In, []drivers.Out, error) {
	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ch <- result{ins: gomidi.GetInPorts(), outs: gomidi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		return r.ins, r.outs, nil
	case <-time.After(scanTimeout):
		return nil, nil, fmt.Errorf("listing midi ports: timed out after %s", scanTimeout)
	}
}

// OpenOut opens an output port by name and returns its sender
func OpenOut(name string) (func(gomidi.Message) error, error) {
	_, outs, err := scan()
	if err != nil {
		return nil, err
	}
	for _, port := range outs {
		if port.String() == name {
			send, err := gomidi.SendTo(port)
			if err != nil {
				return nil, fmt.Errorf("open output %q: %w", name, err)
			}
			debug.Log(debug.MIDI, "monitor output %q open", name)
			return send, nil
		}
	}
	return nil, fmt.Errorf("output %q: %w", name, ErrPortNotFound)
}

// ListenClock feeds realtime messages from an input port into c. The
// returned function closes the listener.
func ListenClock(name string, c *ClockFollower) (stop func(), err error) {
	ins, _, err := scan()
	if err != nil {
		return nil, err
	}
	for _, port := range ins {
		if port.String() != name {
			continue
		}
		// timing clock is filtered by the driver unless time code is on
		stop, err := gomidi.ListenTo(port, func(msg gomidi.Message, timestampms int32) {
			c.Handle(msg)
		}, gomidi.UseTimeCode())
		if err != nil {
			return nil, fmt.Errorf("open clock input %q: %w", name, err)
		}
		debug.Log(debug.MIDI, "clock input %q open", name)
		return stop, nil
	}
	return nil, fmt.Errorf("input %q: %w", name, ErrPortNotFound)
}
