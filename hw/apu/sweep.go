package apu

// sweep periodically adjusts a square channel period.
type sweep struct {
	// The two square channels differ in the way they negate the change amount:
	// square 1 adds the one's complement (-c-1), square 2 the two's complement
	// (-c).
	onesComplement bool

	enabled bool
	period  uint8 // divider period, 3-bit
	negate  bool
	shift   uint8 // 3-bit
	reload  bool
	divider uint8
}

// write handles writes to the sweep register (EPPP.NSSS).
func (sw *sweep) write(val uint8) {
	sw.enabled = val&0x80 != 0
	sw.period = (val >> 4) & 0x07
	sw.negate = val&0x08 != 0
	sw.shift = val & 0x07
	sw.reload = true
}

func (sw *sweep) reset() {
	sw.enabled = false
	sw.period = 0
	sw.negate = false
	sw.shift = 0
	sw.reload = true
	sw.divider = 0
}

// target computes the period the sweep unit would apply to a channel with the
// current period. The result may be out of the 11-bit range.
func (sw *sweep) target(period uint16) int32 {
	change := int32(period >> sw.shift)
	if sw.negate {
		change = -change
		if sw.onesComplement {
			change--
		}
	}
	return int32(period) + change
}

// muting reports whether the target period silences the channel. This is
// evaluated continuously, even if the sweep unit is disabled.
func (sw *sweep) muting(period uint16) bool {
	t := sw.target(period)
	return t > 0x7FF || t < 0
}

// tick clocks the sweep divider, on half frames. When the divider reaches 0
// and the sweep is active, the target period is written to *period.
func (sw *sweep) tick(period *uint16) {
	if sw.divider == 0 && sw.enabled && sw.shift > 0 && *period >= 8 && !sw.muting(*period) {
		*period = uint16(sw.target(*period))
	}

	if sw.divider == 0 || sw.reload {
		sw.divider = sw.period
		sw.reload = false
	} else {
		sw.divider--
	}
}
