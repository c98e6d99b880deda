package emu

import (
	"errors"
	"io"

	"nsfplay/audio"
	"nsfplay/emu/log"
	"nsfplay/hw/apu"
	"nsfplay/hw/hwdefs"
	"nsfplay/trace"
)

// EventSource provides the CPU writes to replay, in cycle order. Next returns
// io.EOF at the end of the stream. A *trace.FaultError stops the playback at
// the fault cycle, any other error stops it immediately.
type EventSource interface {
	Next() (trace.Event, error)
}

// Player replays CPU writes onto the bus, at the cycle they've been issued,
// while the APU is clocked.
type Player struct {
	Bus *Bus
	APU *apu.APU

	src  EventSource
	pump *audio.Pump

	next    trace.Event
	pending bool // next holds an event not yet applied
	eof     bool
	fault   *trace.FaultError // recorded fault, reported at its cycle
	err     error

	cycle uint64
}

// NewPlayer creates a player for the given region, replaying events from src
// and producing samples at sampleRate Hz.
func NewPlayer(region hwdefs.Region, src EventSource, sampleRate int, volume float64) *Player {
	a := apu.New(region)
	p := &Player{
		Bus: NewBus(a),
		APU: a,
		src: src,
	}
	p.pump = audio.NewPump(p, int(region.ClockRate()), sampleRate, volume)
	return p
}

// Cycle returns the current CPU cycle.
func (p *Player) Cycle() uint64 { return p.cycle }

// Done reports whether all events have been replayed.
func (p *Player) Done() bool { return p.eof && !p.pending }

// Err returns the error that stopped the player, if any.
func (p *Player) Err() error { return p.err }

// Tick applies the events of the current cycle and clocks the APU once. A
// CPU fault is reported once its cycle is reached.
func (p *Player) Tick() error {
	if p.err != nil {
		return p.err
	}

	for !p.eof && p.fault == nil {
		if !p.pending {
			ev, err := p.src.Next()
			if errors.Is(err, io.EOF) {
				p.eof = true
				log.ModEmu.DebugZ("end of events").Uint64("cycle", p.cycle).End()
				break
			}
			if errors.As(err, &p.fault) {
				break
			}
			if err != nil {
				p.err = err
				return err
			}
			p.next, p.pending = ev, true
		}

		if p.next.Cycle > p.cycle {
			break
		}
		p.Bus.Write8(p.next.Addr, p.next.Val)
		p.pending = false
	}

	if p.fault != nil && p.fault.Cycle <= p.cycle {
		p.err = p.fault
		log.ModEmu.WarnZ("cpu fault").Uint64("cycle", p.cycle).String("msg", p.fault.Msg).End()
		return p.err
	}

	p.APU.Tick()
	p.cycle++
	return nil
}

// AddLogContext decorates log entries with the current CPU cycle.
func (p *Player) AddLogContext(e *log.EntryZ) {
	e.Uint64("cycle", p.cycle)
}

// Output returns the current APU output.
func (p *Player) Output() float64 {
	return p.APU.Output()
}

// Render returns the next n samples. Less than n samples are returned if the
// event source fails.
func (p *Player) Render(n int) ([]int16, error) {
	out := make([]int16, n)
	nread, err := p.pump.Read(out)
	return out[:nread], err
}

// Reader returns the player output as little-endian 16-bit PCM.
func (p *Player) Reader() io.Reader {
	return p.pump.Reader()
}
