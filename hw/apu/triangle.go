package apu

import (
	"nsfplay/emu/log"
	"nsfplay/hw/hwio"
)

// The triangleChannel contains the following: Timer, 32-step sequencer, Length
// Counter, Linear Counter, 4-bit DAC.
//
//	+---------+    +---------+
//	|LinearCtr|    | Length  |
//	+---------+    +---------+
//	     |              |
//	     v              v
//	+---------+        |\             |\         +---------+    +---------+
//	|  Timer  |------->| >----------->| >------->|Sequencer|--->|   DAC   |
//	+---------+        |/             |/         +---------+    +---------+
type triangleChannel struct {
	length lengthCounter
	linear linearCounter
	timer  timer

	pos uint8 // current position on "triangleSequence".

	Linear hwio.Reg8 `hwio:"offset=0x08,wcb,writeonly"`
	Unused hwio.Reg8 `hwio:"offset=0x09,writeonly"`
	Timer  hwio.Reg8 `hwio:"offset=0x0A,wcb,writeonly"`
	Length hwio.Reg8 `hwio:"offset=0x0B,wcb,writeonly"`
}

var triangleSequence = [32]uint8{
	15, 14, 13, 12, 11, 10, 9, 8,
	7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7,
	8, 9, 10, 11, 12, 13, 14, 15,
}

func (tc *triangleChannel) WriteLINEAR(_, val uint8) {
	tc.linear.write(val)
	tc.length.halt = tc.linear.control

	log.ModSound.DebugZ("write triangle linear").
		Hex8("reg", val).
		Bool("ctrl", tc.linear.control).
		Uint8("reload", tc.linear.reloadValue).
		End()
}

func (tc *triangleChannel) WriteTIMER(_, val uint8) {
	tc.timer.period = (tc.timer.period & 0x0700) | uint16(val)

	log.ModSound.DebugZ("write triangle timer").
		Hex8("reg", val).
		Uint16("period", tc.timer.period).
		End()
}

func (tc *triangleChannel) WriteLENGTH(_, val uint8) {
	tc.length.load(val >> 3)
	tc.timer.period = (tc.timer.period & 0x00FF) | (uint16(val&0x07) << 8)

	// Sets the linear counter reload flag (side effect).
	tc.linear.reload = true

	log.ModSound.DebugZ("write triangle length").
		Hex8("reg", val).
		Uint16("period", tc.timer.period).
		Uint8("length", tc.length.counter).
		End()
}

func (tc *triangleChannel) Tick() {
	if !tc.timer.tick() {
		return
	}

	// The sequencer is clocked by the timer as long as both the linear
	// counter and the length counter are nonzero. Periods below 2 produce
	// ultrasonic frequencies that only cause pops, hold the sequencer instead.
	if tc.length.status() && tc.linear.counter > 0 && tc.timer.period >= 2 {
		tc.pos = (tc.pos + 1) & 0x1F
	}
}

func (tc *triangleChannel) TickQuarterFrame() {
	tc.linear.tick()
}

func (tc *triangleChannel) TickHalfFrame() {
	tc.length.tick()
}

// Output returns the current sequencer value. When the sequencer is held the
// triangle keeps outputting the last value.
func (tc *triangleChannel) Output() uint8 {
	return triangleSequence[tc.pos]
}

func (tc *triangleChannel) reset() {
	tc.timer.reset()
	tc.length.reset()
	tc.linear.reset()
	tc.pos = 0
}
