package apu

import (
	"nsfplay/emu/log"
	"nsfplay/hw/hwdefs"
	"nsfplay/hw/hwio"
)

// noiseChannel generates pseudo-random 1-bit noise at 16 different
// frequencies.
//
//	      Timer --> Shift Register   Length Counter
//	                    |                |
//	                    v                v
//	Envelope -------> Gate ----------> Gate --> (to mixer)
type noiseChannel struct {
	envelope envelope
	length   lengthCounter
	timer    timer

	periods  *[16]uint16
	shiftReg uint16 // 15-bit, never 0
	mode     bool   // short mode: feedback from bit 6

	Volume hwio.Reg8 `hwio:"offset=0x0C,wcb,writeonly"`
	Unused hwio.Reg8 `hwio:"offset=0x0D,writeonly"`
	Period hwio.Reg8 `hwio:"offset=0x0E,wcb,writeonly"`
	Length hwio.Reg8 `hwio:"offset=0x0F,wcb,writeonly"`
}

// Noise timer periods, in CPU cycles.
var (
	noisePeriodsNTSC = [16]uint16{4, 8, 16, 32, 64, 96, 128, 160, 202, 254, 380, 508, 762, 1016, 2034, 4068}
	noisePeriodsPAL  = [16]uint16{4, 8, 14, 30, 60, 88, 118, 148, 188, 236, 354, 472, 708, 944, 1890, 3778}
)

func newNoiseChannel(region hwdefs.Region) noiseChannel {
	nc := noiseChannel{periods: &noisePeriodsNTSC}
	if region == hwdefs.PAL {
		nc.periods = &noisePeriodsPAL
	}
	return nc
}

func (nc *noiseChannel) WriteVOLUME(_, val uint8) {
	nc.envelope.write(val)
	nc.length.halt = nc.envelope.loop

	log.ModSound.DebugZ("write noise volume").Hex8("val", val).End()
}

func (nc *noiseChannel) WritePERIOD(_, val uint8) {
	nc.timer.period = nc.periods[val&0x0F] - 1
	nc.mode = hwio.GetBit8(val, 7)

	log.ModSound.DebugZ("write noise period").
		Hex8("val", val).
		Uint16("period", nc.timer.period).
		Bool("short", nc.mode).
		End()
}

func (nc *noiseChannel) WriteLENGTH(_, val uint8) {
	nc.length.load(val >> 3)
	nc.envelope.restart()

	log.ModSound.DebugZ("write noise length").
		Hex8("val", val).
		Uint8("length", nc.length.counter).
		End()
}

// clockShiftRegister advances the LFSR by one step.
func (nc *noiseChannel) clockShiftRegister() {
	// Feedback is calculated as the exclusive-OR of bit 0 and one other
	// bit: bit 6 if Mode flag is set, otherwise bit 1.
	modebit := 1
	if nc.mode {
		modebit = 6
	}

	feedback := (nc.shiftReg & 0x01) ^ ((nc.shiftReg >> modebit) & 0x01)
	nc.shiftReg >>= 1
	nc.shiftReg |= feedback << 14
}

func (nc *noiseChannel) Tick() {
	if nc.timer.tick() {
		nc.clockShiftRegister()
	}
}

func (nc *noiseChannel) TickQuarterFrame() {
	nc.envelope.tick()
}

func (nc *noiseChannel) TickHalfFrame() {
	nc.length.tick()
}

func (nc *noiseChannel) Output() uint8 {
	// The mixer receives the current envelope volume except when bit 0 of the
	// shift register is set, or the length counter is zero.
	if nc.shiftReg&0x01 != 0 || !nc.length.status() {
		return 0
	}
	return nc.envelope.output()
}

func (nc *noiseChannel) reset() {
	nc.envelope.reset()
	nc.length.reset()
	nc.timer.reset()

	nc.timer.period = nc.periods[0] - 1
	nc.shiftReg = 1
	nc.mode = false
}
