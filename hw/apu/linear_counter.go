package apu

// linearCounter is the triangle channel finer grained duration counter,
// clocked by quarter frames.
type linearCounter struct {
	counter     uint8
	reloadValue uint8 // 7-bit
	reload      bool
	control     bool // also the length counter halt flag
}

func (lin *linearCounter) write(val uint8) {
	lin.control = val&0x80 != 0
	lin.reloadValue = val & 0x7F
}

func (lin *linearCounter) reset() {
	lin.counter = 0
	lin.reloadValue = 0
	lin.reload = true
	lin.control = false
}

func (lin *linearCounter) tick() {
	if lin.reload {
		lin.counter = lin.reloadValue
	} else if lin.counter > 0 {
		lin.counter--
	}

	if !lin.control {
		lin.reload = false
	}
}
