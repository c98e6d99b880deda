package apu

import "testing"

func TestLengthCounter(t *testing.T) {
	var lc lengthCounter
	lc.reset()
	lc.setEnabled(true)
	lc.load(0)

	if lc.counter != 10 {
		t.Fatalf("counter = %d, want 10", lc.counter)
	}
	for i := 1; i <= 9; i++ {
		lc.tick()
		if !lc.status() {
			t.Fatalf("counter reached 0 after %d half frames", i)
		}
	}
	lc.tick()
	if lc.status() {
		t.Fatalf("counter = %d after 10 half frames, want 0", lc.counter)
	}
	lc.tick()
	if lc.counter != 0 {
		t.Fatalf("counter wrapped: %d", lc.counter)
	}
}

func TestLengthCounterHalt(t *testing.T) {
	var lc lengthCounter
	lc.reset()
	lc.setEnabled(true)
	lc.halt = true
	lc.load(1)

	for range 1000 {
		lc.tick()
	}
	if lc.counter != 254 {
		t.Errorf("halted counter = %d, want 254", lc.counter)
	}
}

func TestLengthCounterEnable(t *testing.T) {
	var lc lengthCounter
	lc.reset()

	lc.load(3)
	if lc.counter != 0 {
		t.Errorf("disabled counter loaded with %d", lc.counter)
	}

	lc.setEnabled(true)
	lc.load(3)
	if lc.counter != 2 {
		t.Errorf("counter = %d, want 2", lc.counter)
	}

	lc.setEnabled(false)
	if lc.counter != 0 {
		t.Errorf("disabling didn't clear the counter: %d", lc.counter)
	}

	lc.setEnabled(true)
	if lc.counter != 0 {
		t.Errorf("enabling reloaded the counter: %d", lc.counter)
	}
}

func TestLinearCounter(t *testing.T) {
	var lin linearCounter
	lin.reset()
	lin.write(0x05)

	lin.tick()
	if lin.counter != 5 {
		t.Fatalf("counter = %d, want 5 after reload", lin.counter)
	}
	if lin.reload {
		t.Fatalf("reload flag should be cleared when control is clear")
	}
	for want := 4; want >= 0; want-- {
		lin.tick()
		if int(lin.counter) != want {
			t.Fatalf("counter = %d, want %d", lin.counter, want)
		}
	}
	lin.tick()
	if lin.counter != 0 {
		t.Fatalf("counter = %d, want 0", lin.counter)
	}

	// With the control flag set, the counter is reloaded at each tick.
	lin.write(0x85)
	lin.reload = true
	for range 10 {
		lin.tick()
		if lin.counter != 5 {
			t.Fatalf("counter = %d, want 5", lin.counter)
		}
	}
}
