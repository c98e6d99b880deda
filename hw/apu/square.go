package apu

import (
	"nsfplay/emu/log"
	"nsfplay/hw/hwio"
)

// There are two square channels beginning at registers $4000 and $4004. Each
// contains the following: Envelope Generator, Sweep Unit, Timer with
// divide-by-two on the output, 8-step sequencer, Length Counter.
//
//	               +---------+    +---------+
//	               |  Sweep  |--->|Timer / 2|
//	               +---------+    +---------+
//	                    |              |
//	                    |              v
//	                    |         +---------+    +---------+
//	                    |         |Sequencer|    | Length  |
//	                    |         +---------+    +---------+
//	                    |              |              |
//	                    v              v              v
//	+---------+        |\             |\             |\          +---------+
//	|Envelope |------->| >----------->| >----------->| >-------->|   DAC   |
//	+---------+        |/             |/             |/          +---------+
type squareChannel struct {
	id       ChannelID
	envelope envelope
	sweep    sweep
	length   lengthCounter
	timer    timer

	apuCycle bool // the timer is clocked every other CPU cycle

	duty    uint8
	dutyPos uint8
	period  uint16 // 11-bit

	Duty   hwio.Reg8 `hwio:"offset=0x00,wcb,writeonly"`
	Sweep  hwio.Reg8 `hwio:"offset=0x01,wcb,writeonly"`
	Timer  hwio.Reg8 `hwio:"offset=0x02,wcb,writeonly"`
	Length hwio.Reg8 `hwio:"offset=0x03,wcb,writeonly"`
}

func newSquareChannel(id ChannelID) squareChannel {
	return squareChannel{
		id: id,
		sweep: sweep{
			onesComplement: id == Square1,
		},
	}
}

// duty cycle sequences for the square channels.
var squareDuty = [4][8]uint8{
	{0, 1, 0, 0, 0, 0, 0, 0}, // 12.5%
	{0, 1, 1, 0, 0, 0, 0, 0}, // 25%
	{0, 1, 1, 1, 1, 0, 0, 0}, // 50%
	{1, 0, 0, 1, 1, 1, 1, 1}, // 25% negated
}

func (sc *squareChannel) WriteDUTY(_, val uint8) {
	sc.duty = val >> 6
	sc.envelope.write(val)
	sc.length.halt = sc.envelope.loop

	log.ModSound.DebugZ("write pulse duty").
		Stringer("chan", sc.id).
		Hex8("reg", val).
		Uint8("duty", sc.duty).
		End()
}

func (sc *squareChannel) WriteSWEEP(_, val uint8) {
	sc.sweep.write(val)

	log.ModSound.DebugZ("write pulse sweep").
		Stringer("chan", sc.id).
		Hex8("reg", val).
		Bool("enabled", sc.sweep.enabled).
		Bool("negate", sc.sweep.negate).
		Uint8("shift", sc.sweep.shift).
		End()
}

func (sc *squareChannel) WriteTIMER(_, val uint8) {
	sc.setPeriod((sc.period & 0x0700) | uint16(val))

	log.ModSound.DebugZ("write pulse timer").
		Stringer("chan", sc.id).
		Hex8("reg", val).
		Uint16("period", sc.period).
		End()
}

func (sc *squareChannel) WriteLENGTH(_, val uint8) {
	sc.length.load(val >> 3)
	sc.setPeriod((sc.period & 0x00FF) | (uint16(val&0x07) << 8))

	// sequencer is restarted at the first value of the current sequence.
	sc.dutyPos = 0

	// envelope is also restarted.
	sc.envelope.restart()

	log.ModSound.DebugZ("write pulse length").
		Stringer("chan", sc.id).
		Hex8("reg", val).
		Uint8("length", sc.length.counter).
		Uint16("period", sc.period).
		End()
}

func (sc *squareChannel) setPeriod(period uint16) {
	sc.period = period & 0x7FF
	sc.timer.period = sc.period
}

func (sc *squareChannel) isMuted() bool {
	// A period of t < 8, either set explicitly or via a sweep period update,
	// silences the corresponding pulse channel.
	return sc.period < 8 || sc.sweep.muting(sc.period)
}

func (sc *squareChannel) Tick() {
	sc.apuCycle = !sc.apuCycle
	if !sc.apuCycle {
		return
	}
	if sc.timer.tick() {
		sc.dutyPos = (sc.dutyPos + 1) & 0x07
	}
}

func (sc *squareChannel) TickQuarterFrame() {
	sc.envelope.tick()
}

func (sc *squareChannel) TickHalfFrame() {
	sc.length.tick()
	sc.sweep.tick(&sc.period)
	sc.timer.period = sc.period
}

func (sc *squareChannel) Output() uint8 {
	if sc.isMuted() || !sc.length.status() || squareDuty[sc.duty][sc.dutyPos] == 0 {
		return 0
	}
	return sc.envelope.output()
}

func (sc *squareChannel) reset() {
	sc.envelope.reset()
	sc.sweep.reset()
	sc.length.reset()
	sc.timer.reset()

	sc.apuCycle = false
	sc.duty = 0
	sc.dutyPos = 0
	sc.period = 0
}
