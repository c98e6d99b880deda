package hwdefs

import "strings"

const NumAudioChannels = 4 // Square1, Square2, Triangle, Noise

// Region selects the console timings.
type Region uint8

const (
	NTSC Region = iota
	PAL
)

func (r Region) String() string {
	if r == PAL {
		return "pal"
	}
	return "ntsc"
}

// CPU clock rates, in Hz.
const (
	NTSCClockRate = 1789773
	PALClockRate  = 1662607
)

// ClockRate returns the CPU clock rate for the region, in Hz.
func (r Region) ClockRate() uint32 {
	if r == PAL {
		return PALClockRate
	}
	return NTSCClockRate
}

// ParseRegion parses "ntsc" or "pal" (case insensitive).
func ParseRegion(s string) (Region, bool) {
	switch strings.ToLower(s) {
	case "ntsc", "":
		return NTSC, true
	case "pal":
		return PAL, true
	}
	return NTSC, false
}
