// Package apu emulates the 2A03 audio processing unit tone channels: two
// square channels, a triangle channel and a noise channel, clocked one CPU
// cycle at a time.
package apu

import (
	"nsfplay/emu/log"
	"nsfplay/hw/hwdefs"
	"nsfplay/hw/hwio"
)

// Base address of the APU registers on the CPU bus.
const Base = 0x4000

type APU struct {
	Square1  squareChannel
	Square2  squareChannel
	Triangle triangleChannel
	Noise    noiseChannel

	frameCounter frameCounter

	region hwdefs.Region
	cycles uint64

	Status hwio.Reg8 `hwio:"offset=0x15,pcb,rcb,wcb"`
}

// New returns an APU for the given region, in its power-up state.
func New(region hwdefs.Region) *APU {
	a := &APU{
		region:  region,
		Square1: newSquareChannel(Square1),
		Square2: newSquareChannel(Square2),
		Noise:   newNoiseChannel(region),
	}
	a.frameCounter.init(a, region)

	hwio.MustInitRegs(a)
	hwio.MustInitRegs(&a.Square1)
	hwio.MustInitRegs(&a.Square2)
	hwio.MustInitRegs(&a.Triangle)
	hwio.MustInitRegs(&a.Noise)
	hwio.MustInitRegs(&a.frameCounter)

	a.Reset()
	return a
}

// MapRegisters maps all APU registers ($4000-$4017) onto the bus.
func (a *APU) MapRegisters(bus *hwio.Table) {
	bus.MapBank(Base, a, 0)
	bus.MapBank(Base, &a.Square1, 0)
	bus.MapBank(Base+4, &a.Square2, 0)
	bus.MapBank(Base, &a.Triangle, 0)
	bus.MapBank(Base, &a.Noise, 0)
	bus.MapBank(Base, &a.frameCounter, 0)
}

// Region returns the region the APU timings are based on.
func (a *APU) Region() hwdefs.Region { return a.region }

// Cycles returns the number of CPU cycles the APU has been clocked since
// the last reset.
func (a *APU) Cycles() uint64 { return a.cycles }

func (a *APU) status() uint8 {
	var status uint8

	for i, ch := range [...]*lengthCounter{
		&a.Square1.length,
		&a.Square2.length,
		&a.Triangle.length,
		&a.Noise.length,
	} {
		if ch.status() {
			hwio.SetBit8(&status, uint(i))
		}
	}
	if a.frameCounter.irq {
		hwio.SetBit8(&status, 6)
	}

	return status
}

// STATUS: $4015
func (a *APU) PeekSTATUS(val uint8) uint8 {
	return a.status()
}

func (a *APU) ReadSTATUS(val uint8) uint8 {
	status := a.status()

	// Reading $4015 clears the Frame Counter interrupt flag.
	a.frameCounter.irq = false

	log.ModSound.InfoZ("read status").Hex8("status", status).End()
	return status
}

func (a *APU) WriteSTATUS(old, val uint8) {
	log.ModSound.InfoZ("write status").Hex8("val", val).End()

	a.Square1.length.setEnabled(hwio.GetBit8(val, 0))
	a.Square2.length.setEnabled(hwio.GetBit8(val, 1))
	a.Triangle.length.setEnabled(hwio.GetBit8(val, 2))
	a.Noise.length.setEnabled(hwio.GetBit8(val, 3))
}

func (a *APU) frameTick(ftyp FrameType) {
	// Quarter & half frames clock envelopes & linear counter
	a.Square1.TickQuarterFrame()
	a.Square2.TickQuarterFrame()
	a.Triangle.TickQuarterFrame()
	a.Noise.TickQuarterFrame()

	if ftyp == HalfFrame {
		// Half frames clock length counters & sweeps
		a.Square1.TickHalfFrame()
		a.Square2.TickHalfFrame()
		a.Triangle.TickHalfFrame()
		a.Noise.TickHalfFrame()
	}
}

// Reset puts the APU back in its power-up state.
func (a *APU) Reset() {
	a.cycles = 0

	a.Square1.reset()
	a.Square2.reset()
	a.Triangle.reset()
	a.Noise.reset()
	a.frameCounter.reset()
	a.Status.Value = 0

	log.ModSound.DebugZ("reset").Stringer("region", a.region).End()
}

// Tick clocks the APU for one CPU cycle.
func (a *APU) Tick() {
	a.cycles++

	a.frameCounter.tick()
	a.Square1.Tick()
	a.Square2.Tick()
	a.Triangle.Tick()
	a.Noise.Tick()
}

// Channel returns the channel with the given identifier.
func (a *APU) Channel(id ChannelID) Channel {
	switch id {
	case Square1:
		return &a.Square1
	case Square2:
		return &a.Square2
	case Triangle:
		return &a.Triangle
	case Noise:
		return &a.Noise
	}
	panic("unknown channel " + id.String())
}

// Levels returns the current output level of each channel, indexed by
// ChannelID.
func (a *APU) Levels() [hwdefs.NumAudioChannels]uint8 {
	return [hwdefs.NumAudioChannels]uint8{
		Square1:  a.Square1.Output(),
		Square2:  a.Square2.Output(),
		Triangle: a.Triangle.Output(),
		Noise:    a.Noise.Output(),
	}
}

// Output returns the mixed output of all channels, in [0, 1].
func (a *APU) Output() float64 {
	return Mix(a.Square1.Output(), a.Square2.Output(), a.Triangle.Output(), a.Noise.Output())
}

// IRQ reports whether the frame counter interrupt line is asserted.
func (a *APU) IRQ() bool {
	return a.frameCounter.irq
}
