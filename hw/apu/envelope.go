package apu

// envelope generates either a constant volume or a saw envelope, decreasing
// from 15 to 0 at a rate set by the volume/period field. The envelope is
// clocked by the frame counter quarter frames.
type envelope struct {
	constant bool
	loop     bool  // also the length counter halt flag
	volume   uint8 // constant volume or divider period

	start   bool
	divider uint8
	decay   uint8
}

// write handles writes to the channel first register (ddLC.VVVV).
func (env *envelope) write(val uint8) {
	env.loop = val&0x20 != 0
	env.constant = val&0x10 != 0
	env.volume = val & 0x0F
}

// restart sets the start flag, the envelope will be restarted at the next
// quarter frame.
func (env *envelope) restart() {
	env.start = true
}

func (env *envelope) reset() {
	env.constant = false
	env.loop = false
	env.volume = 0
	env.start = true
	env.divider = 0
	env.decay = 0
}

func (env *envelope) tick() {
	if env.start {
		env.start = false
		env.decay = 15
		env.divider = env.volume
		return
	}

	if env.divider > 0 {
		env.divider--
		return
	}

	env.divider = env.volume
	if env.decay > 0 {
		env.decay--
	} else if env.loop {
		env.decay = 15
	}
}

func (env *envelope) output() uint8 {
	if env.constant {
		return env.volume
	}
	return env.decay
}
