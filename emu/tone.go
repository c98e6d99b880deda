package emu

import (
	"fmt"

	"nsfplay/hw/apu"
	"nsfplay/hw/hwdefs"
	"nsfplay/trace"
)

// ToneEvents returns the register writes playing a constant tone of
// frequency freq on the square 1 channel ("pulse") or the triangle channel
// ("triangle").
func ToneEvents(wave string, freq float64, region hwdefs.Region) ([]trace.Event, error) {
	w := func(addr uint16, val uint8) trace.Event {
		return trace.Event{Addr: addr, Val: val}
	}

	switch wave {
	case "pulse":
		period, ok := apu.PulsePeriod(freq, region)
		if !ok || period < 8 {
			return nil, fmt.Errorf("frequency %vHz out of the square channel range", freq)
		}
		return []trace.Event{
			w(0x4015, 0x01),
			w(0x4000, 0xBF), // 50% duty, halt, constant volume 15
			w(0x4001, 0x0F), // sweep disabled, negate, shift 7: never mutes
			w(0x4002, uint8(period)),
			w(0x4003, uint8(period>>8)&0x07),
		}, nil

	case "triangle":
		period, ok := apu.TrianglePeriod(freq, region)
		if !ok || period < 2 {
			return nil, fmt.Errorf("frequency %vHz out of the triangle channel range", freq)
		}
		return []trace.Event{
			w(0x4015, 0x04),
			w(0x4008, 0xFF), // control, linear counter reload 127
			w(0x400A, uint8(period)),
			w(0x400B, uint8(period>>8)&0x07),
		}, nil
	}

	return nil, fmt.Errorf("unknown APU wave %q", wave)
}
