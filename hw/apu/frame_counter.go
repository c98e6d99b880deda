package apu

import (
	"nsfplay/emu/log"
	"nsfplay/hw/hwdefs"
	"nsfplay/hw/hwio"
)

// CPU cycles at which each step of the sequence occurs, for the 4-step and
// 5-step modes.
var (
	stepCyclesNTSC = [2][6]uint32{
		{7457, 14913, 22371, 29828, 29829, 29830},
		{7457, 14913, 22371, 29829, 37281, 37282},
	}
	stepCyclesPAL = [2][6]uint32{
		{8313, 16627, 24939, 33252, 33253, 33254},
		{8313, 16627, 24939, 33253, 41565, 41566},
	}
)

var frameType = [2][6]FrameType{
	{QuarterFrame, HalfFrame, QuarterFrame, NoFrame, HalfFrame, NoFrame},
	{QuarterFrame, HalfFrame, QuarterFrame, NoFrame, HalfFrame, NoFrame},
}

// frameCounter is the frame sequencer, it's clocked once per CPU cycle and
// generates the quarter and half frame events, as well as the frame IRQ.
type frameCounter struct {
	ticker     frameTicker
	stepCycles *[2][6]uint32

	clock      uint64 // CPU cycles since reset, only its parity matters
	cycle      uint32 // CPU cycles since the start of the sequence
	curStep    uint32
	stepMode   uint32 // 0: 4-step mode, 1: 5-step mode
	inhibitIRQ bool
	irq        bool
	blockTick  uint8

	newval            int16 // pending $4017 write, -1 if none
	writeDelayCounter int8

	FrameCounter hwio.Reg8 `hwio:"offset=0x17,wcb,writeonly"`
}

func (fc *frameCounter) init(ticker frameTicker, region hwdefs.Region) {
	fc.ticker = ticker
	fc.stepCycles = &stepCyclesNTSC
	if region == hwdefs.PAL {
		fc.stepCycles = &stepCyclesPAL
	}
}

func (fc *frameCounter) reset() {
	fc.clock = 0
	fc.cycle = 0
	fc.curStep = 0
	fc.stepMode = 0
	fc.irq = false
	fc.blockTick = 0

	// After reset or power-up, the APU acts as if $4017 were written with
	// $00 a few clocks before the first instruction begins.
	fc.newval = 0
	fc.writeDelayCounter = 3
	fc.inhibitIRQ = false
}

func (fc *frameCounter) WriteFRAMECOUNTER(_, val uint8) {
	log.ModSound.InfoZ("write framecounter").Hex8("val", val).End()

	fc.newval = int16(val)

	// Reset sequence after $4017 is written to
	if fc.clock&0x01 != 0 {
		// If the write occurs between APU cycles, the effects occur 4 CPU
		// cycles after the write cycle.
		fc.writeDelayCounter = 4
	} else {
		// If the write occurs during an APU cycle, the effects occur 3 CPU
		// cycles after the $4017 write cycle
		fc.writeDelayCounter = 3
	}

	fc.inhibitIRQ = hwio.GetBit8(val, 6)
	if fc.inhibitIRQ {
		fc.irq = false
	}
}

func (fc *frameCounter) tick() {
	fc.clock++
	fc.cycle++

	if fc.cycle >= fc.stepCycles[fc.stepMode][fc.curStep] {
		if !fc.inhibitIRQ && fc.stepMode == 0 && fc.curStep >= 3 {
			// Set irq on the last 3 cycles for 4-step mode
			fc.irq = true
		}

		ftyp := frameType[fc.stepMode][fc.curStep]
		if ftyp != NoFrame && fc.blockTick == 0 {
			fc.ticker.frameTick(ftyp)

			// Do not allow writes to 4017 to clock the frame counter for the
			// next cycle (i.e this odd cycle + the following even cycle)
			fc.blockTick = 2
		}

		fc.curStep++
		if fc.curStep == 6 {
			fc.curStep = 0
			fc.cycle = 0
		}
	}

	if fc.newval >= 0 {
		fc.writeDelayCounter--
		if fc.writeDelayCounter == 0 {
			// Apply new value after the appropriate number of cycles has elapsed
			fc.stepMode = uint32(hwio.GetBiti8(uint8(fc.newval), 7))

			fc.writeDelayCounter = -1
			fc.curStep = 0
			fc.cycle = 0
			fc.newval = -1

			if fc.stepMode != 0 && fc.blockTick == 0 {
				// Writing to $4017 with bit 7 set will immediately generate
				// a clock for both the quarter frame and the half frame
				// units, regardless of what the sequencer is doing.
				fc.ticker.frameTick(HalfFrame)
				fc.blockTick = 2
			}
		}
	}

	if fc.blockTick > 0 {
		fc.blockTick--
	}
}
