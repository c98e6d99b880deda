package apu

// timer is a divider clocked by the CPU (or APU) clock. It counts down from
// period and signals the sequencer each time it's reloaded.
type timer struct {
	period  uint16
	counter uint16
}

func (t *timer) reset() {
	t.period = 0
	t.counter = 0
}

// tick clocks the timer once. It returns true when the counter has
// underflowed, that is, when the sequencer must advance.
func (t *timer) tick() bool {
	if t.counter == 0 {
		t.counter = t.period
		return true
	}
	t.counter--
	return false
}
