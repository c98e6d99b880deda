package apu

// The APU audio output signal comes from two separate components. The pulse
// channels are output on one pin, triangle and noise on another, each with
// their own non-linear DAC. The outputs are approximated with lookup tables.
//
//	pulse_out = pulseTable[square1 + square2]
//	tnd_out   = tndTable[3*triangle + 2*noise]
var (
	pulseTable = func() (t [31]float64) {
		for n := 1; n < len(t); n++ {
			t[n] = 95.52 / (8128.0/float64(n) + 100)
		}
		return t
	}()

	tndTable = func() (t [203]float64) {
		for n := 1; n < len(t); n++ {
			t[n] = 163.67 / (24329.0/float64(n) + 100)
		}
		return t
	}()
)

// Mix returns the combined output of the 4 channels, given their levels in
// [0, 15]. The result is in [0, 1], and exactly 0 when all channels are
// silent.
func Mix(square1, square2, triangle, noise uint8) float64 {
	square1 &= 0x0F
	square2 &= 0x0F
	triangle &= 0x0F
	noise &= 0x0F

	pulse := pulseTable[square1+square2]
	tnd := tndTable[3*uint16(triangle)+2*uint16(noise)]
	return pulse + tnd
}
