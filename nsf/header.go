package nsf

import (
	"time"

	"nsfplay/hw/hwdefs"
)

type Header struct {
	Version      uint8
	TotalSongs   uint8
	StartingSong uint8 // 1-indexed
	LoadAddr     uint16
	InitAddr     uint16
	PlayAddr     uint16

	SongName  string
	Artist    string
	Copyright string

	PlaySpeedNTSC uint16 // in microseconds
	Bankswitch    [8]uint8
	PlaySpeedPAL  uint16 // in microseconds

	PALNTSC      uint8
	ExtraSound   uint8
	NSF2Reserved uint8
	DataLength   uint32 // 24-bit, 0 means all data until the end of the file
}

// IsPAL reports whether the tune is a PAL tune.
func (hdr *Header) IsPAL() bool {
	return hdr.PALNTSC&0x01 != 0
}

// IsDualRegion reports whether the tune plays on both PAL and NTSC.
func (hdr *Header) IsDualRegion() bool {
	return hdr.PALNTSC&0x02 != 0
}

// Region returns the region the tune has been written for. Dual region tunes
// play on NTSC.
func (hdr *Header) Region() hwdefs.Region {
	if hdr.IsPAL() && !hdr.IsDualRegion() {
		return hwdefs.PAL
	}
	return hwdefs.NTSC
}

// IsBankswitched reports whether the tune uses bankswitching, that is, if any
// of the bankswitch init values is not zero.
func (hdr *Header) IsBankswitched() bool {
	for _, b := range hdr.Bankswitch {
		if b != 0 {
			return true
		}
	}
	return false
}

var chipNames = [7]string{
	"VRC6",
	"VRC7",
	"FDS",
	"MMC5",
	"Namco 163",
	"Sunsoft 5B",
	"VT02+",
}

// ExpansionChips returns the names of the extra sound chips used by the tune.
func (hdr *Header) ExpansionChips() []string {
	var chips []string
	for i, name := range chipNames {
		if hdr.ExtraSound&(1<<i) != 0 {
			chips = append(chips, name)
		}
	}
	return chips
}

// Default play routine periods, used when the header doesn't specify any.
const (
	defaultPlaySpeedNTSC = 16639 // 60.1Hz
	defaultPlaySpeedPAL  = 19997 // 50.0Hz
)

// PlayPeriod returns the duration between 2 calls to the play routine.
func (hdr *Header) PlayPeriod(region hwdefs.Region) time.Duration {
	speed := hdr.PlaySpeedNTSC
	if region == hwdefs.PAL {
		speed = hdr.PlaySpeedPAL
		if speed == 0 {
			speed = defaultPlaySpeedPAL
		}
	} else if speed == 0 {
		speed = defaultPlaySpeedNTSC
	}
	return time.Duration(speed) * time.Microsecond
}
