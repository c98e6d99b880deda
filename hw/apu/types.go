package apu

//go:generate go tool stringer -type=ChannelID,FrameType -output=types_string.go

// ChannelID identifies one of the APU tone channels.
type ChannelID uint8

const (
	Square1 ChannelID = iota
	Square2
	Triangle
	Noise
)

// FrameType is the kind of event fired by the frame counter.
type FrameType uint8

const (
	NoFrame FrameType = iota
	QuarterFrame
	HalfFrame
)

// A Channel is an independently clocked tone generator.
//
// Tick is called once per CPU cycle. TickQuarterFrame and TickHalfFrame are
// only called by the frame counter. Output returns the channel current level,
// in [0, 15].
type Channel interface {
	Tick()
	TickQuarterFrame()
	TickHalfFrame()
	Output() uint8
}

// frameTicker receives the frame counter events.
type frameTicker interface {
	frameTick(FrameType)
}
