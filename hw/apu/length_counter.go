package apu

var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

// lengthCounter provides automatic duration control for a channel. When it
// reaches zero the channel is silenced.
type lengthCounter struct {
	enabled bool
	halt    bool
	counter uint8
}

// load reloads the counter with the length table entry at index code. This
// has no effect when the channel is disabled.
func (lc *lengthCounter) load(code uint8) {
	if lc.enabled {
		lc.counter = lengthTable[code&0x1F]
	}
}

func (lc *lengthCounter) reset() {
	lc.enabled = false
	lc.halt = false
	lc.counter = 0
}

func (lc *lengthCounter) tick() {
	if lc.counter > 0 && !lc.halt {
		lc.counter--
	}
}

// setEnabled handles the channel bit of $4015. Disabling the channel clears
// the counter, enabling it doesn't reload it.
func (lc *lengthCounter) setEnabled(enabled bool) {
	if !enabled {
		lc.counter = 0
	}
	lc.enabled = enabled
}

func (lc *lengthCounter) status() bool {
	return lc.counter > 0
}
