package midi

import (
	"context"
	"errors"
	"testing"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"github.com/google/go-cmp/cmp"

	"go-stepseq/host"
	"go-stepseq/sequencer"
)

var (
	msgClock    = gomidi.Message{0xF8}
	msgStart    = gomidi.Message{0xFA}
	msgContinue = gomidi.Message{0xFB}
	msgStop     = gomidi.Message{0xFC}
)

func drain(c *ClockFollower) []uint32 {
	var out []uint32
	for {
		p := c.NextPulse()
		if p == 0 {
			return out
		}
		out = append(out, p)
	}
}

func TestClockFollower(t *testing.T) {
	c := NewClockFollower()

	// clocks before Start are ignored
	c.Handle(msgClock)
	if got := drain(c); len(got) != 0 {
		t.Fatalf("pulses before start: %v", got)
	}

	c.Handle(msgStart)
	for i := 0; i < 7; i++ {
		c.Handle(msgClock)
	}
	c.Handle(gomidi.NoteOn(0, 60, 100)) // ignored
	want := []uint32{sequencer.ClockReset, 1, 2, 3, 4, 5, 6, 7}
	if diff := cmp.Diff(want, drain(c)); diff != "" {
		t.Fatalf("pulses (-want +got):\n%s", diff)
	}

	c.Handle(msgStop)
	c.Handle(msgClock)
	if c.Running() || len(drain(c)) != 0 {
		t.Fatal("clock should pause on Stop")
	}

	c.Handle(msgContinue)
	c.Handle(msgClock)
	if diff := cmp.Diff([]uint32{8}, drain(c)); diff != "" {
		t.Fatalf("continue keeps counting (-want +got):\n%s", diff)
	}
}

func TestClockFollowerDrivesEngine(t *testing.T) {
	c := NewClockFollower()
	c.Handle(msgStart)
	for i := 0; i < 7; i++ {
		c.Handle(msgClock)
	}

	e := sequencer.NewTrigEngine()
	var out sequencer.OutputFrame
	for ft := uint32(0); ft < 8; ft++ {
		e.Process(sequencer.ControlFrame{Clock: c.NextPulse(), T: ft * 4}, &out)
	}
	if e.Position() != 1 {
		t.Fatalf("position = %d, want 1", e.Position())
	}
}

func TestClockFollowerOverflow(t *testing.T) {
	c := NewClockFollower()
	c.Handle(msgStart)
	for i := 0; i < maxPending+5; i++ {
		c.Handle(msgClock)
	}
	if c.Dropped() != 6 {
		t.Fatalf("dropped = %d, want 6", c.Dropped())
	}
}

type sent struct {
	msgs [][]byte
	err  error
}

func (s *sent) send(msg gomidi.Message) error {
	s.msgs = append(s.msgs, append([]byte(nil), msg...))
	return s.err
}

func TestPitchToKey(t *testing.T) {
	for cv, want := range map[int32]uint8{
		0:                         60,
		sequencer.PitchPerOctave:  72,
		-sequencer.PitchPerOctave: 48,
		63:                        60,
		64:                        61,
		-64:                       60,
		-65:                       59,
		100 * 1536:                127,
		-100 * 1536:               0,
	} {
		if got := PitchToKey(cv); got != want {
			t.Errorf("PitchToKey(%d) = %d, want %d", cv, got, want)
		}
	}
}

func TestMonitorAcid(t *testing.T) {
	s := &sent{}
	m := NewMonitor(s.send, 2, 3)
	g := int32(sequencer.GateFullScale)
	oct := sequencer.PitchPerOctave

	frames := [][]int32{
		{0, 0, 0},
		{0, g, 0},       // on C4
		{0, g, 0},       // held
		{oct / 2, g, g}, // slide to F#4, accented
		{oct, g, 0},     // C5
		{oct, 0, 0},     // off
	}
	for i, f := range frames {
		m.Frame(uint32(i), f)
	}

	want := [][]byte{
		{0x92, 60, VelocityNormal},
		{0x92, 66, VelocityAccent},
		{0x82, 60, 0},
		{0x92, 72, VelocityNormal},
		{0x82, 66, 0},
		{0x82, 72, 0},
	}
	if diff := cmp.Diff(want, s.msgs); diff != "" {
		t.Fatalf("messages (-want +got):\n%s", diff)
	}
}

func TestMonitorTrig(t *testing.T) {
	s := &sent{err: errors.New("port closed")}
	m := NewMonitor(s.send, 9, 1)
	hi := sequencer.TriggerLevel
	for i, v := range []int32{0, hi, hi, 0, 0, hi} {
		m.Frame(uint32(i), []int32{v})
	}
	m.Silence()

	want := [][]byte{
		{0x99, TriggerNote, VelocityNormal},
		{0x89, TriggerNote, 0},
		{0x99, TriggerNote, VelocityNormal},
		{0x89, TriggerNote, 0},
	}
	if diff := cmp.Diff(want, s.msgs); diff != "" {
		t.Fatalf("messages (-want +got):\n%s", diff)
	}
}

func TestMonitorSilenceAfterStop(t *testing.T) {
	s := &sent{}
	tr := host.NewTransport(1000, 300)
	tr.Start()
	m := host.NewManager(sequencer.NewAcidEngine(), tr, 1000)
	mon := NewMonitor(s.send, 0, 3)
	m.AddSink(mon)

	stop := m.Start(context.Background())
	time.Sleep(40 * time.Millisecond)
	stop()
	mon.Silence()

	n := len(s.msgs)
	if n == 0 {
		t.Fatal("monitor sent nothing")
	}
	time.Sleep(10 * time.Millisecond)
	if len(s.msgs) != n {
		t.Fatal("frames reached the monitor after Silence")
	}

	// every note on has its note off
	held := map[byte]int{}
	for _, msg := range s.msgs {
		switch msg[0] & 0xF0 {
		case 0x90:
			held[msg[1]]++
		case 0x80:
			held[msg[1]]--
		}
	}
	for key, n := range held {
		if n != 0 {
			t.Fatalf("key %d left with balance %d", key, n)
		}
	}
}
